package main

// Exit codes for the CLI
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitServerNotRunning  = 2
	ExitTaskNotFound      = 4
	ExitInvalidTransition = 6
	ExitValidationFailed  = 7
)
