package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support human-readable YAML values
// ("500ms", "2s") as well as bare numbers interpreted as seconds.
type Duration struct {
	time.Duration
}

// UnmarshalYAML accepts either a duration string or numeric seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		d.Duration = parsed
	case int:
		d.Duration = time.Duration(v) * time.Second
	case float64:
		d.Duration = time.Duration(v * float64(time.Second))
	default:
		return fmt.Errorf("unsupported duration type %T", raw)
	}
	return nil
}

// MarshalYAML emits the duration as a string ("1.5s").
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// IsZero reports whether the duration is unset.
func (d Duration) IsZero() bool {
	return d.Duration == 0
}
