package services

import (
	"sort"
	"strings"
)

// Rules reported by normalizeMood, for logging.
const (
	moodRuleExact    = "exact"
	moodRuleSynonym  = "synonym"
	moodRuleContains = "contains"
	moodRuleDefault  = "default"
)

// normalizeMood maps free-form analyzer output onto a canonical mood and
// reports which rule matched. It is total: anything unrecognized lands on the
// configured default.
func normalizeMood(cfg *Config, raw string) (string, string) {
	mood := strings.ToLower(strings.TrimSpace(raw))

	if _, ok := cfg.Moods[mood]; ok {
		return mood, moodRuleExact
	}

	if canonical, ok := cfg.MoodSynonyms[mood]; ok {
		if _, exists := cfg.Moods[canonical]; exists {
			return canonical, moodRuleSynonym
		}
	}

	// Sorted so "dark moody evening" resolves the same way every run.
	canonicals := make([]string, 0, len(cfg.Moods))
	for name := range cfg.Moods {
		canonicals = append(canonicals, name)
	}
	sort.Strings(canonicals)
	for _, canonical := range canonicals {
		if strings.Contains(mood, canonical) {
			return canonical, moodRuleContains
		}
	}

	return cfg.DefaultMood, moodRuleDefault
}
