package validate

import (
	"fmt"
	"os"

	"mcqforge/internal/common"
)

// ExtractedText checks that the upstream extraction step produced a
// non-trivial text artifact. The byte floor is a heuristic proxy for
// "extraction plausibly succeeded"; below it, retrying generation is
// pointless.
func ExtractedText(path string, minBytes int) error {
	fi, err := os.Stat(path)
	if err != nil {
		return common.NewAppError("TEXT_NOT_FOUND",
			fmt.Sprintf("extracted text artifact %s is missing", path),
			common.ErrNotFound)
	}

	if fi.Size() == 0 {
		return common.NewAppError("TEXT_EMPTY",
			fmt.Sprintf("extracted text artifact %s is empty", path),
			common.ErrEmpty)
	}

	if fi.Size() < int64(minBytes) {
		return common.NewAppError("TEXT_TOO_SHORT",
			fmt.Sprintf("extracted text is %d bytes; minimum is %d bytes", fi.Size(), minBytes),
			common.ErrTooShort)
	}
	return nil
}
