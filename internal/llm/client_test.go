package llm

import (
	"testing"
)

func TestStripCodeFence_JSONFence(t *testing.T) {
	in := "```json\n{\"intent_type\": \"other\"}\n```"
	want := `{"intent_type": "other"}`
	if got := StripCodeFence(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStripCodeFence_PlainFence(t *testing.T) {
	in := "```\nhello\n```"
	if got := StripCodeFence(in); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestStripCodeFence_NoFence(t *testing.T) {
	in := `{"already": "bare"}`
	if got := StripCodeFence(in); got != in {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestStripCodeFence_TrimsWhitespace(t *testing.T) {
	if got := StripCodeFence("  plain text \n"); got != "plain text" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestBuildMessages_PromptOnly(t *testing.T) {
	msgs := buildMessages(Request{Prompt: "edit this"})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "edit this" {
		t.Errorf("expected user prompt, got %+v", msgs[0])
	}
}

func TestBuildMessages_HistoryCapped(t *testing.T) {
	var history []Message
	for i := 0; i < 12; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, Message{Role: role, Content: "turn"})
	}
	msgs := buildMessages(Request{Prompt: "now", History: history})
	// At most maxHistoryTurns prior turns plus the prompt.
	if len(msgs) > maxHistoryTurns+1 {
		t.Errorf("expected at most %d messages, got %d", maxHistoryTurns+1, len(msgs))
	}
	if msgs[len(msgs)-1].Content != "now" {
		t.Errorf("expected prompt last, got %+v", msgs[len(msgs)-1])
	}
}

func TestBuildMessages_TrailingUserTurnDropped(t *testing.T) {
	// The trailing user turn duplicates the current prompt and is dropped.
	history := []Message{
		{Role: "user", Content: "first ask"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "second ask"},
	}
	msgs := buildMessages(Request{Prompt: "second ask", History: history})
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %+v", msgs)
	}
	for _, m := range msgs[:2] {
		if m.Content == "second ask" {
			t.Errorf("expected trailing user turn dropped from history, got %+v", msgs)
		}
	}
}

func TestBuildMessages_EmptyContentSkipped(t *testing.T) {
	history := []Message{
		{Role: "user", Content: ""},
		{Role: "assistant", Content: "answer"},
	}
	msgs := buildMessages(Request{Prompt: "next", History: history})
	if len(msgs) != 2 {
		t.Fatalf("expected empty turn skipped, got %+v", msgs)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("expected truncation, got %q", got)
	}
}
