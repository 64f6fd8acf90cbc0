package validate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mcqforge/internal/common"
)

func TestExtractedTextNotFound(t *testing.T) {
	err := ExtractedText(filepath.Join(t.TempDir(), "extracted_text.txt"), 100)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestExtractedTextEmpty(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "extracted_text.txt"), 0)
	require.ErrorIs(t, ExtractedText(path, 100), common.ErrEmpty)
}

func TestExtractedTextLengthFloor(t *testing.T) {
	dir := t.TempDir()

	short := writeFile(t, filepath.Join(dir, "short.txt"), 80)
	err := ExtractedText(short, 100)
	require.ErrorIs(t, err, common.ErrTooShort)
	require.Contains(t, err.Error(), "80")
	require.Contains(t, err.Error(), "100")

	almost := writeFile(t, filepath.Join(dir, "almost.txt"), 99)
	require.ErrorIs(t, ExtractedText(almost, 100), common.ErrTooShort)

	exact := writeFile(t, filepath.Join(dir, "exact.txt"), 100)
	require.NoError(t, ExtractedText(exact, 100), "exactly the floor passes")

	long := writeFile(t, filepath.Join(dir, "long.txt"), 5000)
	require.NoError(t, ExtractedText(long, 100))
}
