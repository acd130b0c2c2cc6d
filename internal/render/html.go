package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("figure").Parse(htmlTemplate))
}

// GenerateHTML generates a self-contained HTML page for the figure.
func GenerateHTML(fig *Figure, title string) (string, error) {
	if fig == nil {
		return "", fmt.Errorf("figure cannot be nil")
	}
	if title == "" {
		title = "Graph Plot"
	}

	if fig.IsEmpty() {
		return generateEmptyHTML(title), nil
	}

	figJSON, err := fig.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:      title,
		FigureJSON: template.JS(figJSON),
		Width:      fig.Width,
		Height:     fig.Height,
		HoverNodes: fig.HoverNodes,
		HoverEdges: fig.HoverEdges,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	FigureJSON template.JS
	Width      int
	Height     int
	HoverNodes bool
	HoverEdges bool
}

// generateEmptyHTML returns HTML for an empty figure.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>The graph has no nodes to draw.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: {{.Width}}px;
      height: {{.Height}}px;
      margin: 0 auto;
      background: white;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const figure = {{.FigureJSON}};
      const hoverNodes = {{.HoverNodes}};
      const hoverEdges = {{.HoverEdges}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: figure,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'background-opacity': 'data(alpha)',
              'border-color': 'data(color)',
              'width': 'data(size)',
              'height': 'data(size)',
              'shape': 'data(shape)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': 'data(color)',
              'opacity': 'data(alpha)',
              'width': 'data(width)',
              'curve-style': 'straight'
            }
          },
          {
            selector: 'node.dimmed, edge.dimmed',
            style: {
              'opacity': 0.2
            }
          }
        ],
        layout: {
          name: 'preset',
          fit: false
        },
        userZoomingEnabled: true,
        userPanningEnabled: true
      });

      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function escapeHtml(str) {
        return String(str).replace(/&/g, '&amp;')
                          .replace(/</g, '&lt;')
                          .replace(/>/g, '&gt;')
                          .replace(/"/g, '&quot;');
      }

      function tooltipContent(data) {
        const tip = data.tooltip;
        if (!tip) return '';
        let html = '<div class="type">' + escapeHtml(tip._type) + '</div>';
        for (const key of Object.keys(tip).sort()) {
          if (key === '_type') continue;
          html += '<div class="detail">' + escapeHtml(key) + ': ' +
                  escapeHtml(tip[key]) + '</div>';
        }
        return html;
      }

      if (hoverNodes) {
        cy.on('mouseover', 'node', function(evt) {
          showTooltip(evt, tooltipContent(evt.target.data()));
        });
        cy.on('mouseout', 'node', hideTooltip);
      }

      if (hoverEdges) {
        cy.on('mouseover', 'edge', function(evt) {
          showTooltip(evt, tooltipContent(evt.target.data()));
        });
        cy.on('mouseout', 'edge', hideTooltip);
      }

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        cy.elements().removeClass('dimmed');
        const neighborhood = node.neighborhood().add(node);
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
