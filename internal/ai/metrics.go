package ai

import (
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_ai_requests_total",
			Help: "Total number of requests to the AI backend.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codequest_ai_request_duration_seconds",
			Help:    "Histogram of AI backend request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codequest_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codequest_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)
)

func observeRequest(model, status string, duration time.Duration) {
	aiRequestsTotal.With(prometheus.Labels{"model": model, "status": status}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": model}).Observe(duration.Seconds())
}

// observeTokens records usage reported by the API, falling back to a
// tiktoken estimate when the backend omits the usage block.
func observeTokens(model, systemPrompt, userInput string, resp openai.ChatCompletionResponse) {
	promptTokens := resp.Usage.PromptTokens
	completionTokens := resp.Usage.CompletionTokens

	if resp.Usage.TotalTokens == 0 {
		tke, err := tiktoken.EncodingForModel(model)
		if err != nil {
			return
		}
		promptTokens = len(tke.Encode(systemPrompt, nil, nil)) + len(tke.Encode(userInput, nil, nil))
		if len(resp.Choices) > 0 {
			completionTokens = len(tke.Encode(resp.Choices[0].Message.Content, nil, nil))
		}
	}

	aiPromptTokens.With(prometheus.Labels{"model": model}).Observe(float64(promptTokens))
	aiCompletionTokens.With(prometheus.Labels{"model": model}).Observe(float64(completionTokens))
}

func observeOllamaTokens(model string, resp api.ChatResponse) {
	if resp.PromptEvalCount > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": model}).Observe(float64(resp.PromptEvalCount))
	}
	if resp.EvalCount > 0 {
		aiCompletionTokens.With(prometheus.Labels{"model": model}).Observe(float64(resp.EvalCount))
	}
}
