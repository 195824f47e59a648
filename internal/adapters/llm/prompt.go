package llm

import (
	"strings"

	"genslang/internal/core/translation"
)

// systemPrompt demands a bare JSON object matching the result schema.
// Models drift toward markdown fences and commentary, so the instruction
// forbids both explicitly and the parser still recovers from stragglers
const systemPrompt = `You are a generational slang translator.
Given an input phrase, detect which generation's slang it uses and rewrite it in the voice of each generation listed below.

Respond with a single JSON object and nothing else. No markdown, no code fences, no prose before or after. The object must have exactly this shape:

{
  "detectedGeneration": "<one of: %GENERATIONS% or Standard English>",
  "originalText": "<the input phrase verbatim>",
  "translations": [
    {
      "generation": "<generation name>",
      "text": "<the phrase rewritten in that generation's slang>",
      "slangWords": [{"word": "<slang term used>", "definition": "<plain-English meaning>"}]
    }
  ]
}

Rules:
- "translations" must contain exactly 6 entries, one per generation, in this order: %GENERATIONS%.
- Every "generation" value must be spelled exactly as listed.
- "slangWords" lists the slang terms you actually used in that entry's "text"; use [] when the rewrite has none.
- Keep each rewrite to one or two sentences.`

// buildMessages assembles the chat payload for one input phrase
func buildMessages(text string) []chatMessage {
	names := make([]string, len(translation.Generations))
	for i, g := range translation.Generations {
		names[i] = string(g)
	}
	sys := strings.ReplaceAll(systemPrompt, "%GENERATIONS%", strings.Join(names, ", "))

	return []chatMessage{
		{Role: "system", Content: sys},
		{Role: "user", Content: text},
	}
}
