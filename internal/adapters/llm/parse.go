package llm

import (
	"encoding/json"
	"strings"

	"genslang/internal/core/translation"
)

// Stage tags where a parse attempt ended
type Stage int

// Parse pipeline stages in order of progress
const (
	StageParsed Stage = iota
	StageEnvelopeParseFailed
	StageContentParseFailed
	StageSchemaInvalid
)

// String names the stage for logs
func (s Stage) String() string {
	switch s {
	case StageParsed:
		return "parsed"
	case StageEnvelopeParseFailed:
		return "envelope_parse_failed"
	case StageContentParseFailed:
		return "content_parse_failed"
	case StageSchemaInvalid:
		return "schema_invalid"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of parsing one upstream body
type Outcome struct {
	Stage  Stage
	Result *translation.Result
	Err    error
}

// ParseBody runs the full defensive pipeline over a raw upstream body:
// envelope JSON, then content JSON, then a brace-substring recovery pass,
// then schema validation. It never guesses past a failed stage
func ParseBody(body []byte) Outcome {
	var env chatResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return Outcome{Stage: StageEnvelopeParseFailed, Err: err}
	}
	if len(env.Choices) == 0 {
		return Outcome{Stage: StageContentParseFailed, Err: errNoChoices}
	}

	content := strings.TrimSpace(env.Choices[0].Message.Content)
	if content == "" {
		return Outcome{Stage: StageContentParseFailed, Err: errEmptyContent}
	}
	return ParseContent(content)
}

// ParseContent parses assistant message content as a translation result,
// falling back to the largest brace-delimited substring before giving up
func ParseContent(content string) Outcome {
	content = strings.TrimSpace(content)

	var res translation.Result
	err := json.Unmarshal([]byte(content), &res)
	if err != nil {
		recovered, ok := braceSubstring(content)
		if !ok {
			return Outcome{Stage: StageContentParseFailed, Err: err}
		}
		if rerr := json.Unmarshal([]byte(recovered), &res); rerr != nil {
			return Outcome{Stage: StageContentParseFailed, Err: rerr}
		}
	}

	if serr := res.CheckSchema(); serr != nil {
		return Outcome{Stage: StageSchemaInvalid, Err: serr}
	}
	return Outcome{Stage: StageParsed, Result: &res}
}

// braceSubstring returns the widest {...} span of s, for content wrapped in
// code fences or prefixed with prose
func braceSubstring(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

type parseErr string

func (e parseErr) Error() string { return string(e) }

const (
	errNoChoices    parseErr = "envelope has no choices"
	errEmptyContent parseErr = "assistant content is empty"
)
