package mcq

import (
	"bytes"
	"fmt"
)

// ExtractJSONArray pulls the first complete JSON array out of model output
// that may be wrapped in prose or code fences. The backend is asked for a
// bare JSON array but does not always comply.
func ExtractJSONArray(raw []byte) ([]byte, error) {
	start := bytes.IndexByte(raw, '[')
	end := bytes.LastIndexByte(raw, ']')
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in %d bytes of output", len(raw))
	}
	return raw[start : end+1], nil
}
