package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mcqforge/internal/common"
	"mcqforge/internal/mcq"
)

// excerptLines is how much raw output gets surfaced when parsing fails.
const excerptLines = 5

// Output checks the generation output artifact: exists, non-empty, parses
// as a JSON question array, and passes the schema pass. The raw artifact may
// wrap the array in prose; recovery of the array is attempted before
// rejecting it as malformed.
func Output(path string) (mcq.Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError("OUTPUT_NOT_FOUND",
			fmt.Sprintf("output artifact %s is missing", path),
			common.ErrNotFound)
	}
	if len(raw) == 0 {
		return nil, common.NewAppError("OUTPUT_EMPTY",
			fmt.Sprintf("output artifact %s is empty", path),
			common.ErrEmpty)
	}

	arr, err := mcq.ExtractJSONArray(raw)
	if err != nil {
		return nil, common.NewAppError("OUTPUT_MALFORMED",
			fmt.Sprintf("%v; output begins: %s", err, excerpt(raw)),
			common.ErrMalformedJSON)
	}

	var set mcq.Set
	if err := json.Unmarshal(arr, &set); err != nil {
		return nil, common.NewAppError("OUTPUT_MALFORMED",
			fmt.Sprintf("parse question array: %v; output begins: %s", err, excerpt(raw)),
			common.ErrMalformedJSON)
	}

	if err := mcq.ValidateAgainstSchema(mcq.BuildQuestionSetSchema(), arr); err != nil {
		return nil, common.NewAppError("OUTPUT_SCHEMA_INVALID",
			fmt.Sprintf("question set rejected: %v", err),
			common.ErrSchemaInvalid)
	}
	return set, nil
}

func excerpt(raw []byte) string {
	lines := strings.SplitN(string(raw), "\n", excerptLines+1)
	if len(lines) > excerptLines {
		lines = lines[:excerptLines]
	}
	s := strings.Join(lines, "\n")
	if len(s) > 500 {
		s = s[:500] + "...(truncated)"
	}
	return s
}
