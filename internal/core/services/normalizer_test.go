package services

import "testing"

func TestNormalizeMood(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		input    string
		wantMood string
		wantRule string
	}{
		{name: "exact canonical", input: "romantic", wantMood: "romantic", wantRule: moodRuleExact},
		{name: "exact with case and spaces", input: "  Melancholic ", wantMood: "melancholic", wantRule: moodRuleExact},
		{name: "synonym calm", input: "calm", wantMood: "peaceful", wantRule: moodRuleSynonym},
		{name: "synonym chill maps to moody", input: "chill", wantMood: "moody", wantRule: moodRuleSynonym},
		{name: "synonym upbeat", input: "Upbeat", wantMood: "energetic", wantRule: moodRuleSynonym},
		{name: "substring containment", input: "deeply nostalgic evening", wantMood: "nostalgic", wantRule: moodRuleContains},
		{name: "substring happy-go-lucky", input: "happy-go-lucky", wantMood: "happy", wantRule: moodRuleContains},
		{name: "unknown falls back to default", input: "zesty", wantMood: "happy", wantRule: moodRuleDefault},
		{name: "empty falls back to default", input: "", wantMood: "happy", wantRule: moodRuleDefault},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			mood, rule := normalizeMood(cfg, tc.input)
			if mood != tc.wantMood || rule != tc.wantRule {
				t.Fatalf("normalizeMood(%q): got (%q, %q), want (%q, %q)", tc.input, mood, rule, tc.wantMood, tc.wantRule)
			}
		})
	}
}

func TestNormalizeMood_Deterministic(t *testing.T) {
	cfg := DefaultConfig()

	// Multiple canonical names embedded; the sorted scan must always pick the
	// same one.
	input := "moody and melancholic at once"
	first, _ := normalizeMood(cfg, input)
	for i := 0; i < 20; i++ {
		got, _ := normalizeMood(cfg, input)
		if got != first {
			t.Fatalf("run %d: got %q, want stable %q", i, got, first)
		}
	}
	if first != "melancholic" {
		t.Fatalf("sorted scan should resolve to melancholic, got %q", first)
	}
}
