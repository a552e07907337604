package llm

import "testing"

func TestEstimateTokens_Empty(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %d", got)
	}
}

func TestEstimateTokens_SingleWord(t *testing.T) {
	if got := EstimateTokens("hi"); got < 1 {
		t.Errorf("expected at least 1 token, got %d", got)
	}
}

func TestEstimateTokens_ScalesWithWords(t *testing.T) {
	short := EstimateTokens("one two three")
	long := EstimateTokens("one two three four five six seven eight nine ten")
	if long <= short {
		t.Errorf("expected more tokens for more words, got %d <= %d", long, short)
	}
	// Ten words at ~1.33 tokens each.
	if long != 13 {
		t.Errorf("expected 13 tokens for ten words, got %d", long)
	}
}
