package pipeline

import "fmt"

// ConfigError reports an invalid pipeline configuration. It is always
// raised before any work starts; no partial output exists when it
// surfaces.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}
