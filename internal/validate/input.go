package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mcqforge/constants"
	"mcqforge/internal/common"
)

// Input checks an incoming document's existence, size bound, and extension
// against the allow-list. All failures are caller errors: fatal, never
// retried.
func Input(path string, maxBytes int64) error {
	fi, err := os.Stat(path)
	if err != nil {
		return common.NewAppError("INPUT_NOT_FOUND",
			fmt.Sprintf("input file %s does not exist", path),
			common.ErrNotFound)
	}

	if fi.Size() > maxBytes {
		return common.NewAppError("INPUT_TOO_LARGE",
			fmt.Sprintf("input file is %d bytes; maximum is %d bytes", fi.Size(), maxBytes),
			common.ErrTooLarge)
	}

	ext := filepath.Ext(path)
	if !constants.IsAllowedExt(ext) {
		return common.NewAppError("INPUT_UNSUPPORTED_TYPE",
			fmt.Sprintf("unsupported file type %q; allowed: %s", ext, strings.Join(constants.AllowedExtList(), ", ")),
			common.ErrUnsupportedType)
	}
	return nil
}
