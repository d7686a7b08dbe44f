package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	lenient := CommandPolicy{DefaultCount: 10}
	strict := CommandPolicy{DefaultCount: 10, Strict: true}

	tests := []struct {
		name   string
		params string
		max    int
		policy CommandPolicy
		want   Command
	}{
		{"help", "help", 100, lenient, Command{Help: true}},
		{"help with spaces", "  HELP ", 100, lenient, Command{Help: true}},
		{"empty uses default", "", 100, lenient, Command{Count: 10}},
		{"valid count", "25", 100, lenient, Command{Count: 25}},
		{"at the cap", "50", 50, lenient, Command{Count: 50}},
		{"not a number", "abc", 100, lenient, Command{Count: 10, Notice: "Please enter a valid number"}},
		{"zero", "0", 100, lenient, Command{Count: 10, Notice: "Please enter a valid number"}},
		{"too large", "200", 100, lenient, Command{Count: 10, Notice: "Please enter a smaller number (at most 100)"}},
		{"strict rejects", "abc", 100, strict, Command{Count: 10, Notice: "Please enter a valid number", Abort: true}},
		{"default clamped to cap", "", 5, lenient, Command{Count: 5}},
		{"missing default", "", 100, CommandPolicy{}, Command{Count: fallbackCount}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.params, tt.max, tt.policy))
		})
	}
}

func TestUsageMentionsLimits(t *testing.T) {
	msg := usage(SourceProfile{Name: "twitter", Noun: "tweet", MaxCount: 50}, 10)

	assert.True(t, strings.HasPrefix(msg, "twitter - Fetch tweets"))
	assert.Contains(t, msg, "between 1 and 50")
	assert.Contains(t, msg, "defaults to 10")
}
