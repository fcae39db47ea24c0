package engine

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrPromptTooVague reports a prompt too short to describe a form.
var ErrPromptTooVague = errors.New("engine: prompt too short or vague, describe the form in a few words")

const minPromptLength = 8

var trivialWord = regexp.MustCompile(`^[A-Za-z]{1,4}$`)

// CheckPrompt rejects prompts that cannot describe a form: fewer than eight
// characters, a single word, digits only, or one short word. Resolve itself
// accepts any prompt; callers facing end users run this first.
func CheckPrompt(prompt string) error {
	cleaned := strings.TrimSpace(prompt)
	switch {
	case len(cleaned) < minPromptLength,
		len(strings.Fields(cleaned)) < 2,
		allDigits(cleaned),
		trivialWord.MatchString(cleaned):
		return ErrPromptTooVague
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
