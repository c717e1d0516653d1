package services

import (
	"fmt"
	"strings"

	"github.com/lecturelab/lectura-backend/internal/types"
)

// Each artifact generator truncates its transcript input to a bounded prefix
// before sending it out. This is a cost/latency control, not a correctness
// requirement.
const (
	summaryTranscriptLimit    = 25000
	chaptersTranscriptLimit   = 30000
	formulasTranscriptLimit   = 20000
	strategyTranscriptLimit   = 20000
	quizTranscriptLimit       = 25000
	flashcardsTranscriptLimit = 25000
	cheatSheetTranscriptLimit = 30000
	tutorTranscriptLimit      = 15000

	quizQuestionCount = 10
	quizOptionCount   = 4
)

func truncateTranscript(transcript string, limit int) string {
	if limit <= 0 || len(transcript) <= limit {
		return transcript
	}
	return transcript[:limit]
}

// ---------- free-text prompts ----------

func summarySystemPrompt() string {
	return "You summarize lecture transcripts for students. Write a clear, well-organized " +
		"summary of the lecture's key ideas in a few short paragraphs. Use only the transcript content."
}

func cheatSheetSystemPrompt() string {
	return "You produce one-page exam cheat sheets from lecture transcripts. Output markdown " +
		"with short sections, key definitions, formulas, and memorable facts. Use only the transcript content."
}

func tutorSystemPrompt(transcript string) string {
	return "You are a patient tutor answering questions about one specific lecture. " +
		"Answer only from the lecture transcript below; if the answer is not in the transcript, say so. " +
		"When the student signals they have no more questions, suggest they try the practice quiz.\n\n" +
		"LECTURE TRANSCRIPT:\n" + truncateTranscript(transcript, tutorTranscriptLimit)
}

func videoReconstructionSystemPrompt() string {
	return "You reconstruct the likely spoken content of a specific online lecture video. " +
		"Search the web for the video, its description, captions, and discussions of it, then write " +
		"a faithful plain-text transcript-style reconstruction of the lecture content. " +
		"Output only the reconstructed lecture text."
}

func videoReconstructionUserPrompt(videoID, titleHint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video id: %s\n", videoID)
	if strings.TrimSpace(titleHint) != "" {
		fmt.Fprintf(&b, "Video title: %s\n", titleHint)
	}
	b.WriteString("Reconstruct the lecture's spoken content as plain text.")
	return b.String()
}

// ---------- structured prompts ----------

func chaptersSystemPrompt() string {
	return "You segment lecture transcripts into chapters. Produce timestamped chapters in the " +
		"narrative order of the lecture, each with a short title and a one-sentence summary. " +
		"Timestamps are best-effort labels like \"00:12:30\"."
}

func formulasSystemPrompt() string {
	return "You extract formulas, equations, and named laws from lecture transcripts. " +
		"Return each expression with a one-line description. Return an empty list if there are none."
}

func strategySystemPrompt(examType types.ExamType, timeFrame types.TimeFrame) string {
	return fmt.Sprintf("You design exam preparation strategies. The student is preparing for a %s "+
		"with %s available before the exam. From the lecture content, pick the topics to prioritize, "+
		"the topics safe to deprioritize, and give short actionable advice.",
		examType.Label(), timeFrame.Label())
}

func quizSystemPrompt() string {
	return fmt.Sprintf("You write practice quizzes from lecture transcripts. Produce exactly %d "+
		"multiple-choice questions, each with exactly %d answer options, the zero-based index of the "+
		"correct option, and a short explanation.", quizQuestionCount, quizOptionCount)
}

func flashcardsSystemPrompt() string {
	return "You write study flashcards from lecture transcripts. Each card has a short front " +
		"(term or question) and a concise back (definition or answer)."
}

// ---------- json_schema payloads ----------
//
// OpenAI strict JSON schemas require additionalProperties:false and a required
// list covering every property, so all fields are required and allowed to be
// empty where unused.

func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func chaptersSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chapters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"timestamp": map[string]any{"type": "string"},
						"title":     map[string]any{"type": "string"},
						"summary":   map[string]any{"type": "string"},
					},
					"required":             []string{"timestamp", "title", "summary"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"chapters"},
		"additionalProperties": false,
	}
}

func formulasSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"formulas": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"expression":  map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required":             []string{"expression", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"formulas"},
		"additionalProperties": false,
	}
}

func strategySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"priority_topics":     stringArraySchema(),
			"deprioritize_topics": stringArraySchema(),
			"advice":              map[string]any{"type": "string"},
		},
		"required":             []string{"priority_topics", "deprioritize_topics", "advice"},
		"additionalProperties": false,
	}
}

func quizSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":                   map[string]any{"type": "integer"},
						"question":             map[string]any{"type": "string"},
						"options":              stringArraySchema(),
						"correct_answer_index": map[string]any{"type": "integer"},
						"explanation":          map[string]any{"type": "string"},
					},
					"required":             []string{"id", "question", "options", "correct_answer_index", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	}
}

func flashcardsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "integer"},
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required":             []string{"id", "front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"flashcards"},
		"additionalProperties": false,
	}
}
