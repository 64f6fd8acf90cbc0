package mcq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAgainstSchema(t *testing.T) {
	schema := BuildQuestionSetSchema()

	valid := `[{"question":"What is the main purpose of photosynthesis?","options":["A) Produce oxygen","B) Convert sunlight to energy","C) Remove carbon dioxide","D) Create water"],"correct_answer":"B","explanation":"It converts light energy into chemical energy."}]`
	require.NoError(t, ValidateAgainstSchema(schema, []byte(valid)))

	notArray := `{"question":"What is the main purpose of photosynthesis?"}`
	require.Error(t, ValidateAgainstSchema(schema, []byte(notArray)))

	extraKey := `[{"question":"What is the main purpose of photosynthesis?","options":["A) Produce oxygen","B) Convert sunlight to energy","C) Remove carbon dioxide","D) Create water"],"correct_answer":"B","explanation":"It converts light energy into chemical energy.","hint":"think energy"}]`
	require.Error(t, ValidateAgainstSchema(schema, []byte(extraKey)), "unknown keys are rejected")
}

func TestValidateParams(t *testing.T) {
	require.NoError(t, ValidateParams("easy", 1))
	require.NoError(t, ValidateParams("hard", 20))
	require.Error(t, ValidateParams("extreme", 5))
	require.Error(t, ValidateParams("medium", 0))
	require.Error(t, ValidateParams("medium", 21))
}
