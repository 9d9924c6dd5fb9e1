package main

import (
	"errors"
	"os"

	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/config"
	"github.com/tasktrack/tasktrack/internal/domain"
	"github.com/tasktrack/tasktrack/internal/identity"
)

// loadConfig resolves the configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Resolve(config.Options{Path: configPath})
}

// getClient returns an API client for the configured server address.
func getClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.NewClient(cfg.Addr(), identity.ClientID(client.DefaultClientID)), nil
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, client.ErrServerNotRunning) {
		return ExitServerNotRunning
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeTaskNotFound:
			return ExitTaskNotFound
		case domain.ErrCodeInvalidTransition:
			return ExitInvalidTransition
		case domain.ErrCodeValidationFailed:
			return ExitValidationFailed
		}
	}

	return ExitGeneralError
}

// handleError prints the error and exits with the mapped code.
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, jsonOutput)
	os.Exit(mapErrorToExitCode(err))
}
