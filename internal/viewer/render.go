package viewer

import (
	"fmt"
	"strings"

	"github.com/Cerebrovinny/apihealth/internal/health"
)

const (
	txtLoading     = "Checking API health..."
	txtErrorPrefix = "API error: "
	txtHeading     = "API Health"
	txtMissing     = "-"
	txtHelp        = "Press 'q' to quit."
)

type field struct {
	key   string
	value string
}

func fields(s *health.Status) []field {
	if s == nil {
		s = &health.Status{}
	}
	return []field{
		{"status", orMissing(s.Status)},
		{"app", orMissing(s.App)},
		{"time", orMissing(s.Time)},
	}
}

func orMissing(v string) string {
	if v == "" {
		return txtMissing
	}
	return v
}

// Render returns the unstyled text for a view state.
func Render(state State, status *health.Status, message string) string {
	switch state {
	case StateError:
		return txtErrorPrefix + message
	case StateSuccess:
		var b strings.Builder
		b.WriteString(txtHeading)
		for _, f := range fields(status) {
			fmt.Fprintf(&b, "\n  %s: %s", f.key, f.value)
		}
		return b.String()
	default:
		return txtLoading
	}
}
