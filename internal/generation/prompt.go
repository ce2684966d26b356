package generation

import (
	"fmt"
	"strings"
)

// Content embedded in prompts is clipped to keep requests inside the
// provider token budgets; stored source excerpts are shorter still.
const (
	maxPromptContentRunes = 3000
	sourceExcerptRunes    = 1000
)

// summaryLengthGuide maps a requested summary length to the word budget
// spelled out in the system prompt.
var summaryLengthGuide = map[string]string{
	"short":  "2-3 sentences (50-100 words)",
	"medium": "1-2 paragraphs (150-300 words)",
	"long":   "3-4 paragraphs (400-600 words)",
}

func buildQuizSystemPrompt(difficulty string, questionTypes []string, numQuestions int) string {
	return fmt.Sprintf(`You are an expert educational content creator specializing in assessment design. Generate a high-quality quiz based on the provided lesson content.

REQUIREMENTS:
- Difficulty level: %s
- Question types: %s
- Ensure questions test understanding, application, and analysis - not just memorization
- Questions should be clear, unambiguous, and educationally sound
- For multiple choice questions, include 4 plausible options with only one correct answer
- Provide detailed explanations for correct answers
- Ensure content is appropriate for educational use
- Return response in valid JSON format only

QUALITY STANDARDS:
- Questions should align with learning objectives
- Distractors should be plausible but clearly incorrect
- Language should be clear and accessible
- Content should be factually accurate

JSON STRUCTURE:
{
    "questions": [
        {
            "question": "Clear, specific question text",
            "type": "multiple_choice|true_false|short_answer",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct_answer": "Option A",
            "explanation": "Detailed explanation of why this answer is correct",
            "difficulty": "%s",
            "learning_objective": "What this question tests"
        }
    ],
    "metadata": {
        "total_questions": %d,
        "difficulty_level": "%s",
        "estimated_time_minutes": 15
    }
}`, difficulty, strings.Join(questionTypes, ", "), difficulty, numQuestions, difficulty)
}

func buildQuizHumanPrompt(lessonContent string, numQuestions int) string {
	return fmt.Sprintf(`Generate %d quiz questions based on this lesson content:

LESSON CONTENT:
%s

Focus on the key concepts, main ideas, and learning objectives. Ensure questions test different levels of understanding (knowledge, comprehension, application, analysis).`,
		numQuestions, truncateAtSentence(lessonContent, maxPromptContentRunes))
}

func buildSummarySystemPrompt(length string, focusAreas []string) string {
	guide, ok := summaryLengthGuide[length]
	if !ok {
		guide = summaryLengthGuide[DefaultLength]
	}

	prompt := fmt.Sprintf(`You are an expert educational content summarizer. Create a %s summary (%s) of the provided lesson content.

REQUIREMENTS:
- Capture the main concepts, key points, and learning objectives
- Use clear, concise, and educational language
- Maintain factual accuracy and educational value
- Structure the summary logically with smooth transitions
- Ensure content is appropriate for educational use
- Include relevant examples or applications where helpful

QUALITY STANDARDS:
- Summary should be self-contained and understandable
- Key terminology should be clearly explained
- Important relationships between concepts should be highlighted
- Content should be engaging and informative`, length, guide)

	if len(focusAreas) > 0 {
		prompt += fmt.Sprintf("\n- Focus particularly on these areas: %s", strings.Join(focusAreas, ", "))
	}

	return prompt
}

func buildSummaryHumanPrompt(lessonContent string) string {
	return "Summarize this lesson content:\n\n" + lessonContent
}

func buildFlashcardSystemPrompt(difficulty string) string {
	return fmt.Sprintf(`You are an expert educational content creator specializing in spaced repetition learning materials. Generate high-quality flashcards based on the provided lesson content.

REQUIREMENTS:
- Difficulty level: %s
- Create clear, concise question-answer pairs optimized for memorization and understanding
- Focus on key concepts, definitions, important facts, and relationships
- Questions should test both recall and comprehension
- Keep answers brief but complete and accurate
- Ensure educational appropriateness and factual accuracy
- Return response in valid JSON format only

QUALITY STANDARDS:
- Questions should be specific and unambiguous
- Answers should be concise but comprehensive
- Include a mix of factual recall and conceptual understanding
- Avoid overly complex or compound questions
- Use clear, accessible language

JSON STRUCTURE:
{
    "flashcards": [
        {
            "question": "Clear, specific question",
            "answer": "Concise, accurate answer",
            "category": "Topic/concept category",
            "difficulty": "%s",
            "type": "definition|concept|fact|application"
        }
    ],
    "metadata": {
        "total_cards": 10,
        "difficulty_level": "%s",
        "categories": ["list", "of", "categories"]
    }
}`, difficulty, difficulty, difficulty)
}

func buildFlashcardHumanPrompt(lessonContent string, numCards int) string {
	return fmt.Sprintf("Create %d flashcards from this lesson content:\n\n%s",
		numCards, clipRunes(lessonContent, maxPromptContentRunes))
}

// truncateAtSentence clips text to limit runes, preferring to end on a
// period when one falls in the final fifth of the clipped text. Without
// a late-enough sentence boundary the hard cut gets an ellipsis.
func truncateAtSentence(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	clipped := runes[:limit]
	lastPeriod := -1
	for i := len(clipped) - 1; i >= 0; i-- {
		if clipped[i] == '.' {
			lastPeriod = i
			break
		}
	}

	if lastPeriod > limit*8/10 {
		return string(clipped[:lastPeriod+1])
	}
	return string(clipped) + "..."
}

// clipRunes returns the first limit runes of text.
func clipRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
