package safety

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ParseOutput validates safety's stdout and counts the reported
// vulnerabilities. Both output generations are accepted: the report object
// with a "vulnerabilities" array, and the bare findings array emitted by
// older releases. The document itself passes through untouched.
func ParseOutput(data []byte) (json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(data)

	var obj struct {
		Vulnerabilities []json.RawMessage `json:"vulnerabilities"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		return trimmed, len(obj.Vulnerabilities), nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err == nil {
		return trimmed, len(arr), nil
	}

	return nil, 0, errors.New("output is neither a safety report object nor a findings array")
}
