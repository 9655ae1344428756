package bandit

import (
	"encoding/json"
	"fmt"
)

// ParseReport extracts the findings array from a bandit JSON report. The
// findings themselves stay opaque; only the envelope is decoded.
func ParseReport(data []byte) (json.RawMessage, int, error) {
	var rep struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, 0, fmt.Errorf("not a bandit report: %w", err)
	}
	if len(rep.Results) == 0 || string(rep.Results) == "null" {
		return json.RawMessage("[]"), 0, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rep.Results, &items); err != nil {
		return nil, 0, fmt.Errorf("results is not an array: %w", err)
	}
	return rep.Results, len(items), nil
}
