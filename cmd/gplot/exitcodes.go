package main

// Exit codes used by all gplot commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid palette/budget)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
)
