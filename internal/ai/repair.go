package ai

import (
	"encoding/json"
	"strings"
)

// RepairStrategy attempts to coerce raw model output into valid JSON.
// Returns the extracted JSON and true on success.
type RepairStrategy func(raw string) (json.RawMessage, bool)

// RepairStrategies is the ordered tolerance pipeline for untrusted model
// output: direct parse, then fence stripping, then the largest {...} span,
// then the largest [...] span wrapped as {"questions": ...}. Strategies
// run in sequence and the first success wins.
var RepairStrategies = []RepairStrategy{
	parseDirect,
	parseStrippedFences,
	parseBraceSpan,
	parseBracketSpanAsQuestions,
}

// RepairJSON runs the repair pipeline over raw output. The boolean is
// false only when every strategy failed.
func RepairJSON(raw string) (json.RawMessage, bool) {
	for _, strategy := range RepairStrategies {
		if data, ok := strategy(raw); ok {
			return data, true
		}
	}
	return nil, false
}

func parseDirect(raw string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}
	var js json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &js); err != nil {
		return nil, false
	}
	return js, true
}

// parseStrippedFences removes a surrounding markdown code fence
// ("```json ... ```" or plain "```") and retries the direct parse.
func parseStrippedFences(raw string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "```") {
		return nil, false
	}

	start := strings.Index(trimmed, "```")
	rest := trimmed[start+3:]
	// Drop an optional language tag on the fence line.
	if newline := strings.IndexByte(rest, '\n'); newline != -1 {
		firstLine := strings.TrimSpace(rest[:newline])
		if firstLine == "" || isFenceLanguageTag(firstLine) {
			rest = rest[newline+1:]
		}
	}
	if end := strings.LastIndex(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return parseDirect(rest)
}

func isFenceLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// parseBraceSpan extracts the widest {...} span and parses it.
func parseBraceSpan(raw string) (json.RawMessage, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	return parseDirect(raw[start : end+1])
}

// parseBracketSpanAsQuestions extracts the widest [...] span and wraps it
// in the quiz envelope, recovering responses where the model returned a
// bare questions array.
func parseBracketSpanAsQuestions(raw string) (json.RawMessage, bool) {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	arr := json.RawMessage(raw[start : end+1])
	if !json.Valid(arr) {
		return nil, false
	}
	wrapped, err := json.Marshal(map[string]json.RawMessage{"questions": arr})
	if err != nil {
		return nil, false
	}
	return wrapped, true
}
