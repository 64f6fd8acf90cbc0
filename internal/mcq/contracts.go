package mcq

import "fmt"

// Question is the normalized shape we expect from the backend: one stem,
// exactly four labeled options, a single correct letter, and an explanation.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Set is a validated question set, in backend output order.
type Set []Question

// ValidateParams checks the caller-supplied generation parameters.
func ValidateParams(difficulty string, numQuestions int) error {
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("invalid difficulty %q: must be one of easy, medium, hard", difficulty)
	}
	if numQuestions < 1 || numQuestions > 20 {
		return fmt.Errorf("number of questions must be between 1 and 20, got %d", numQuestions)
	}
	return nil
}
