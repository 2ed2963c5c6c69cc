package shared

import (
	"encoding/json"
	"fmt"
)

// FormatDuration renders a track length in seconds as m:ss (or h:mm:ss).
// Zero and negative values render as a placeholder.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "--:--"
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// MarshalJSON marshals data, optionally indented for human-readable output.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
