package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/graphplot/graphplot/internal/config"
)

var serveFlags struct {
	addr  string
	watch bool
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (default: from global config, or :8480)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "Re-render when the data files change")
	addChannelFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rendered plot over HTTP",
	Long: `Serve the rendered plot over HTTP for live preview.

All draw flags apply. With --watch the plot is re-rendered whenever
the repository data files change on disk.`,
	RunE: runServe,
}

// plotServer renders lazily and caches the HTML until invalidated.
type plotServer struct {
	repoRoot string
	limiter  *rate.Limiter

	mu   sync.Mutex
	html string
}

func (s *plotServer) invalidate() {
	s.mu.Lock()
	s.html = ""
	s.mu.Unlock()
}

func (s *plotServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.html == "" {
		html, err := renderRepo(s.repoRoot)
		if err != nil {
			http.Error(w, fmt.Sprintf("rendering plot: %v", err), http.StatusInternalServerError)
			return
		}
		s.html = html
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, s.html)
}

func runServe(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	addr := serveFlags.addr
	if addr == "" {
		addr = config.GetServeAddr()
	}
	if addr == "" {
		addr = ":8480"
	}

	srv := &plotServer{
		repoRoot: repoRoot,
		limiter:  rate.NewLimiter(rate.Limit(10), 20),
	}

	if serveFlags.watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		defer watcher.Close()
		// Watch the directory, not the files: editors and import
		// rewrites replace the files by rename, which would orphan a
		// per-file watch.
		if err := watcher.Add(config.GraphplotPath(repoRoot)); err != nil {
			return fmt.Errorf("watching repository: %w", err)
		}
		watched := map[string]bool{
			config.NodesPath(repoRoot): true,
			config.EdgesPath(repoRoot): true,
		}
		go func() {
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					if dataFileChanged(ev, watched) {
						srv.invalidate()
					}
				case _, ok := <-watcher.Errors:
					if !ok {
						return
					}
				}
			}
		}()
	}

	outputHuman("Serving plot at http://%s\n", addr)
	return http.ListenAndServe(addr, srv)
}

// dataFileChanged reports whether a directory watch event touches one of
// the repository data files.
func dataFileChanged(ev fsnotify.Event, watched map[string]bool) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return watched[filepath.Clean(ev.Name)]
}
