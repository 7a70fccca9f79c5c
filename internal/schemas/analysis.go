// Package schemas defines the prompts and JSON response schemas handed to
// the AI client, keyed by analysis depth, plus the quiz generation prompt.
package schemas

import (
	"fmt"

	"codequest-server/internal/ai"
	"codequest-server/internal/models"
)

// AnalysisConfig pairs the system prompt with the response schema for one
// analysis depth.
type AnalysisConfig struct {
	SystemPrompt string
	Schema       *ai.Schema
}

// AnalysisTemperature keeps analyses close to deterministic so cached and
// regenerated entries stay comparable.
const AnalysisTemperature = 0.4

var analysisConfigs = map[models.Depth]AnalysisConfig{
	models.DepthInitial: {
		SystemPrompt: "You are a senior engineering mentor. Produce a first-contact study summary " +
			"of the topic the user provides: what it is, why it matters, its key concepts and a " +
			"realistic difficulty estimate for a junior developer. Respond with JSON only.",
		Schema: &ai.Schema{
			Name: "topic_initial_analysis",
			Definition: map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"summary":         map[string]interface{}{"type": "string", "description": "Two or three sentence overview of the topic."},
					"key_concepts":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"why_it_matters":  map[string]interface{}{"type": "string"},
					"difficulty":      map[string]interface{}{"type": "string", "enum": []string{"beginner", "intermediate", "advanced"}},
					"estimated_hours": map[string]interface{}{"type": "integer", "description": "Rough hours to reach working knowledge."},
				},
				"required": []string{"summary", "key_concepts", "why_it_matters", "difficulty", "estimated_hours"},
			},
		},
	},
	models.DepthDeep: {
		SystemPrompt: "You are a senior engineering mentor. Produce an in-depth technical analysis " +
			"of the topic the user provides: core principles, how it works internally, best " +
			"practices and the pitfalls that bite in production. Respond with JSON only.",
		Schema: &ai.Schema{
			Name: "topic_deep_analysis",
			Definition: map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"summary":         map[string]interface{}{"type": "string"},
					"core_principles": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"internals":       map[string]interface{}{"type": "string", "description": "How the technology works under the hood."},
					"best_practices":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
					"common_pitfalls": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
				},
				"required": []string{"summary", "core_principles", "internals", "best_practices", "common_pitfalls"},
			},
		},
	},
	models.DepthPatterns: {
		SystemPrompt: "You are a senior engineering mentor. For the topic the user provides, list " +
			"the recurring design patterns and idioms practitioners rely on, each with the problem " +
			"it solves and a short concrete example. Respond with JSON only.",
		Schema: &ai.Schema{
			Name: "topic_patterns_analysis",
			Definition: map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"patterns": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]interface{}{
								"name":     map[string]interface{}{"type": "string"},
								"problem":  map[string]interface{}{"type": "string"},
								"solution": map[string]interface{}{"type": "string"},
								"example":  map[string]interface{}{"type": "string"},
							},
							"required": []string{"name", "problem", "solution", "example"},
						},
					},
				},
				"required": []string{"patterns"},
			},
		},
	},
	models.DepthTroubleshooting: {
		SystemPrompt: "You are a senior engineering mentor. For the topic the user provides, list " +
			"the failures and errors people actually hit, each with its usual cause and fix, plus " +
			"general debugging tips. Respond with JSON only.",
		Schema: &ai.Schema{
			Name: "topic_troubleshooting_analysis",
			Definition: map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"common_errors": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":                 "object",
							"additionalProperties": false,
							"properties": map[string]interface{}{
								"symptom": map[string]interface{}{"type": "string"},
								"cause":   map[string]interface{}{"type": "string"},
								"fix":     map[string]interface{}{"type": "string"},
							},
							"required": []string{"symptom", "cause", "fix"},
						},
					},
					"debugging_tips": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
				},
				"required": []string{"common_errors", "debugging_tips"},
			},
		},
	},
}

// ForDepth returns the prompt/schema pair for a depth. Unrecognized depths
// deliberately fall back to the deep configuration instead of erroring.
func ForDepth(depth models.Depth) AnalysisConfig {
	switch depth {
	case models.DepthInitial, models.DepthDeep, models.DepthPatterns, models.DepthTroubleshooting:
		return analysisConfigs[depth]
	default:
		return analysisConfigs[models.DepthDeep]
	}
}

// AnalysisUserInput is the user-role message for an analysis request.
func AnalysisUserInput(topic string) string {
	return fmt.Sprintf("Topic: %s", topic)
}
