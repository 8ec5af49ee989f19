package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"insight-engine-go/internal/analytics"
	"insight-engine-go/internal/config"
)

// Summarizer produces the optional executive summary. Implementations must
// never be required for a pipeline run: the caller treats any error as
// "degrade to empty narrative".
type Summarizer interface {
	Summarize(ctx context.Context, s analytics.Summary) (string, error)
}

type openAISummarizer struct {
	client openai.Client
	model  string
	log    *logrus.Entry
}

// New wires the text-generation client from config. Returns nil when no
// credential is configured, which disables the stage entirely.
func New(cfg config.Config, log *logrus.Entry) Summarizer {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	return &openAISummarizer{
		client: openai.NewClient(opts...),
		model:  cfg.SummaryModel,
		log:    log,
	}
}

// Summarize sends the aggregates to the chat model and returns a short
// business-oriented summary. No retry: the stage is contractually allowed to
// fail and the pipeline carries on without it.
func (o *openAISummarizer) Summarize(ctx context.Context, s analytics.Summary) (string, error) {
	prompt := BuildPrompt(s)
	o.log.WithField("model", o.model).Info("requesting executive summary")

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(250),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt embeds the categorical aggregates as literal key/value data.
// Entries arrive already ordered, so identical datasets yield identical
// prompts.
func BuildPrompt(s analytics.Summary) string {
	var b strings.Builder
	b.WriteString("You are a data analyst. Summarize this dataset analysis.\n\n")
	fmt.Fprintf(&b, "- Top genres (with counts): %s\n", formatEntries(s.TopGenres))
	fmt.Fprintf(&b, "- Top directors (with counts): %s\n", formatEntries(s.TopDirectors))
	fmt.Fprintf(&b, "- Ratings distribution: %s\n", formatEntries(s.RatingCounts))
	b.WriteString(`
Write a short executive summary in 4-5 sentences.
Focus on:
- Which genres dominate
- What the rating distribution suggests about target audience
- Any diversity in directors or content
Avoid technical jargon. Write clearly for business stakeholders.
`)
	return b.String()
}

func formatEntries(entries []analytics.Entry) string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %d", e.Label, e.Count)
	}
	b.WriteString("}")
	return b.String()
}
