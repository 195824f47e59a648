// Package domain holds DTOs and contracts for the translate endpoint
package domain

import (
	"strings"
	"unicode/utf8"

	"genslang/internal/core/translation"
	perr "genslang/internal/platform/errors"
	pstrings "genslang/internal/platform/strings"
)

// Input limits, enforced before any quota or upstream spend
const (
	MaxChars = 80
	MaxWords = 20
)

// TranslateInput is the request body for POST /translate.
// Text is untrusted and validated by ValidateText rather than struct tags
// so each failure mode keeps its own error code
type TranslateInput struct {
	Text     string `json:"text"`
	DeviceID string `json:"deviceId,omitempty" validate:"omitempty,max=128"`

	// ClientKey buckets rate limiting; derived by transport, never by clients
	ClientKey string `json:"-"`
}

// TranslateOutput is the success body for POST /translate
type TranslateOutput struct {
	Output *translation.Result `json:"output"`
	Cached bool                `json:"cached"`
}

// ValidateText enforces the input constraints on trimmed text.
// Pure function, counts characters as runes so multibyte input is not
// penalized for its encoding
func ValidateText(text string, maxChars, maxWords int) error {
	t := strings.TrimSpace(text)
	if t == "" {
		return perr.InvalidInputf("please enter some text to translate")
	}
	if utf8.RuneCountInString(t) > maxChars {
		return perr.Newf(perr.CodeInputTooLong, "text must be %d characters or fewer", maxChars)
	}
	if pstrings.WordCount(t) > maxWords {
		return perr.Newf(perr.CodeTooManyWords, "text must be %d words or fewer", maxWords)
	}
	return nil
}
