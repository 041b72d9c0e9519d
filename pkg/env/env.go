// Package env reads process settings that are needed before pkg/config has
// loaded, such as the log format and the platform-assigned port.
package env

import (
	"os"
	"strings"
)

const prefix = "OAK_"

// Get returns the value of key, then of its OAK_-prefixed form, or fallback
// when neither is set.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	if !strings.HasPrefix(key, prefix) {
		if val := strings.TrimSpace(os.Getenv(prefix + key)); val != "" {
			return val
		}
	}
	return fallback
}
