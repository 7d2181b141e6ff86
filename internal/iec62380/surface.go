package iec62380

import (
	"fmt"
	"strconv"
	"strings"
)

// FallbackRadiatingSurface is the dm² area substituted when a radiating
// surface specification cannot be parsed.
const FallbackRadiatingSurface = 0.0132

// ParseRadiatingSurface converts a "W x H" dimension string in millimetres
// into a radiating surface area in dm².
func ParseRadiatingSurface(spec string) (float64, error) {
	parts := strings.SplitN(spec, "x", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("radiating surface %q: want \"W x H\"", spec)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("radiating surface %q: %w", spec, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("radiating surface %q: %w", spec, err)
	}
	return (w / 100) * (h / 100), nil
}
