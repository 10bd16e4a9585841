package backend

import (
	"encoding/json"
	"fmt"

	"github.com/Alkran93/Project-BICPV-sub001/internal/stats"
)

// decodeCycleResponse parses the refrigerant-cycle body while keeping the
// cycle_points object in insertion order. encoding/json would shuffle the
// groups through a map, and the dashboard's ordering contract follows the
// backend's iteration order, so the object is walked with the token API.
func decodeCycleResponse(dec *json.Decoder) (CycleData, error) {
	var data CycleData

	if err := expectDelim(dec, '{'); err != nil {
		return data, err
	}

	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return data, err
		}
		switch key {
		case "facade_id":
			if err := dec.Decode(&data.FacadeID); err != nil {
				return data, fmt.Errorf("facade_id: %w", err)
			}
		case "cycle_points":
			points, err := decodeCyclePoints(dec)
			if err != nil {
				return data, err
			}
			data.Points = points
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return data, fmt.Errorf("field %q: %w", key, err)
			}
		}
	}

	return data, expectDelim(dec, '}')
}

func decodeCyclePoints(dec *json.Decoder) ([]stats.CyclePointGroup, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("cycle_points: %w", err)
	}

	var points []stats.CyclePointGroup
	for dec.More() {
		label, err := stringToken(dec)
		if err != nil {
			return nil, fmt.Errorf("cycle_points: %w", err)
		}
		var group stats.CyclePointGroup
		if err := dec.Decode(&group); err != nil {
			return nil, fmt.Errorf("cycle_points[%q]: %w", label, err)
		}
		if group.Label == "" {
			group.Label = label
		}
		points = append(points, group)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("cycle_points: %w", err)
	}
	return points, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return s, nil
}
