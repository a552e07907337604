package intent

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hongye-zhang/public-texteditor/internal/llm"
)

// Type is the top-level category of a user message. It decides whether the
// edit pipeline is invoked at all.
type Type string

const (
	CreateNew      Type = "create_new"
	ModifyExisting Type = "modify_existing"
	QuestionOnly   Type = "question_only"
	InsertImage    Type = "insert_image"
	Other          Type = "other"
)

var validTypes = map[Type]bool{
	CreateNew:      true,
	ModifyExisting: true,
	QuestionOnly:   true,
	InsertImage:    true,
	Other:          true,
}

// Intent is the classification of one user message.
type Intent struct {
	Type           Type           `json:"intent_type"`
	Confidence     float64        `json:"confidence"`
	AdditionalInfo map[string]any `json:"additional_info,omitempty"`
}

const classifySystemPrompt = `You are an intent recognition assistant for a document editor. Classify the user's request into ONE of these categories:

a. create_new - the user wants to write entirely new content or append content at the very end of a document (new documents, tutorials, explanations meant to become editor content).
b. modify_existing - the user wants to edit, change, or improve existing content: rewriting, inserting between paragraphs, deleting, reordering, formatting, splitting or merging, find-and-replace.
c. question_only - the user is only asking a question or discussing, with no intention to create or change editor content.
d. insert_image - the user wants to insert or generate an image.
e. other - anything else.

Requests for explanations, tutorials, or educational content are "create_new", NOT "question_only", because they produce content for the editor.

Also determine how the message relates to the prior conversation ("continuation", "reference", or "independent") and the primary language of the message.

Your answer must be a valid JSON object with these fields:
- intent_type: one of "create_new", "modify_existing", "question_only", "insert_image", "other"
- confidence: a float between 0 and 1
- additional_info: an object that may include "conversation_history_relevance", "language", and any other context useful for dispatch

Respond with ONLY the JSON object, no other text.`

// Generator is the text-generation capability the classifier runs on.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Classifier turns free-form user messages into Intents.
type Classifier struct {
	gen Generator
	log *slog.Logger
}

func NewClassifier(gen Generator, log *slog.Logger) *Classifier {
	return &Classifier{gen: gen, log: log}
}

// Classify asks the model for a classification and parses it. A response
// that cannot be parsed degrades to Other with zero confidence rather than
// failing the request; classification is advisory, not load-bearing.
func (c *Classifier) Classify(ctx context.Context, message string) (*Intent, error) {
	raw, err := c.gen.Generate(ctx, llm.Request{
		System:      classifySystemPrompt,
		Prompt:      message,
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}

	var intent Intent
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &intent); err != nil {
		c.log.Warn("intent parse failed", "error", err)
		return &Intent{
			Type:           Other,
			Confidence:     0,
			AdditionalInfo: map[string]any{"raw_response": raw},
		}, nil
	}
	if !validTypes[intent.Type] {
		intent.Type = Other
	}
	if intent.Confidence < 0 {
		intent.Confidence = 0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1
	}
	return &intent, nil
}
