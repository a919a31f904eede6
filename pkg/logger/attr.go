package logger

import (
	"log/slog"
	"time"
)

// Error records err under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Rule records the constraint name under the key "rule".
func Rule(name string) slog.Attr {
	return slog.String("rule", name)
}

// Property records the validated property under the key "property".
func Property(name string) slog.Attr {
	return slog.String("property", name)
}

// Owner records the owning entity or type under the key "owner".
func Owner(name string) slog.Attr {
	return slog.String("owner", name)
}

// Resource records a resource registry key under the key "resource".
func Resource(name string) slog.Attr {
	return slog.String("resource", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records d under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
