// Package identity derives the client identity the CLI sends in the
// X-Tasktrack-Client header. The server only logs it.
package identity

import (
	"fmt"
	"os"
	"os/user"
)

const (
	// FallbackUser is used when the user cannot be determined
	FallbackUser = "unknown"
	// FallbackHostname is used when the hostname cannot be determined
	FallbackHostname = "localhost"
)

// ClientID returns "<program>/<user>@<hostname>" for the current process,
// e.g. tasktrack-cli/alice@macbook.
func ClientID(program string) string {
	return Format(program, currentUser(), hostname())
}

// Format builds a client identity from explicit parts, applying fallbacks
// for empty values. An empty program yields just user@hostname.
func Format(program, usr, host string) string {
	if usr == "" {
		usr = FallbackUser
	}
	if host == "" {
		host = FallbackHostname
	}
	if program == "" {
		return fmt.Sprintf("%s@%s", usr, host)
	}
	return fmt.Sprintf("%s/%s@%s", program, usr, host)
}

// currentUser checks $USER first, then the password database.
func currentUser() string {
	if usr := os.Getenv("USER"); usr != "" {
		return usr
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return ""
}
