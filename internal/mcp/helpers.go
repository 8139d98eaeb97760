package mcpserver

import (
	"encoding/json"
	"fmt"

	"pdfmark/internal/domain"
)

// parseJSON parses a JSON string into the target type.
func parseJSON(data string, target any) error {
	return json.Unmarshal([]byte(data), target)
}

// parsePoints accepts either [[x,y],...] or [{"x":..,"y":..},...].
func parsePoints(data string) ([]domain.Point, error) {
	var pairs [][2]float64
	if err := parseJSON(data, &pairs); err == nil {
		pts := make([]domain.Point, len(pairs))
		for i, p := range pairs {
			pts[i] = domain.Point{X: p[0], Y: p[1]}
		}
		return pts, nil
	}
	var pts []domain.Point
	if err := parseJSON(data, &pts); err != nil {
		return nil, fmt.Errorf("points must be a JSON array of [x,y] pairs or {x,y} objects: %w", err)
	}
	return pts, nil
}
