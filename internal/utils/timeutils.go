package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date layouts seen in component source sheets, beyond a bare year.
var constructionLayouts = []string{"2006-01-02", "01/2006", "2006"}

// ParseConstructionYear extracts the year from a construction date cell.
// Accepts a bare year ("1998"), an ISO date, or a month/year form.
func ParseConstructionYear(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty construction date")
	}
	if year, err := strconv.Atoi(value); err == nil {
		return float64(year), nil
	}
	for _, layout := range constructionLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return float64(t.Year()), nil
		}
	}
	return 0, fmt.Errorf("parse construction date %q", value)
}
