package mcq

import "fmt"

// maxPromptText caps how much source text goes into one prompt; backends
// have context limits and the tail contributes little.
const maxPromptText = 12000

// BuildPrompt renders the generation prompt for the extracted document text.
func BuildPrompt(text, difficulty string, numQuestions int) string {
	if len(text) > maxPromptText {
		text = text[:maxPromptText] + "..."
	}

	return fmt.Sprintf(`You are an expert educational content creator. Generate %d high-quality multiple choice questions from the provided text content.

## Instructions:
- Difficulty Level: %s
- Create questions that test understanding, not just memorization
- Each question must have exactly 4 options (A, B, C, D)
- Only one correct answer per question
- Make distractors plausible but clearly incorrect
- Provide educational explanations that teach concepts

## Difficulty Guidelines:
- **Easy**: Basic recall, definitions, simple concepts
- **Medium**: Application of concepts, analysis, moderate complexity
- **Hard**: Synthesis, evaluation, complex reasoning, critical thinking

## Output Format:
Return ONLY a valid JSON array with this exact structure:

[
  {
    "question": "What is the main purpose of photosynthesis?",
    "options": [
      "A) To produce oxygen for animals",
      "B) To convert sunlight into chemical energy",
      "C) To remove carbon dioxide from the atmosphere",
      "D) To create water molecules"
    ],
    "correct_answer": "B",
    "explanation": "Photosynthesis primarily converts light energy into chemical energy (glucose), which plants use for growth and metabolism."
  }
]

## Text Content:
%s

Generate %d questions now. Return only the JSON array, no additional text.`,
		numQuestions, difficulty, text, numQuestions)
}
