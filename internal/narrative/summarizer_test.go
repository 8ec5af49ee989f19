package narrative

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"insight-engine-go/internal/analytics"
	"insight-engine-go/internal/config"
	"insight-engine-go/internal/logger"
)

func testSummary() analytics.Summary {
	return analytics.Summary{
		TopGenres:    []analytics.Entry{{Label: "Drama", Count: 2}, {Label: "Comedy", Count: 1}},
		TopDirectors: []analytics.Entry{{Label: "Jane Doe", Count: 3}},
		RatingCounts: []analytics.Entry{{Label: "PG-13", Count: 1}},
	}
}

func TestNew_DisabledWithoutCredential(t *testing.T) {
	s := New(config.Config{}, logger.New().WithComponent("narrative"))
	if s != nil {
		t.Fatal("expected nil summarizer without API key")
	}
}

func TestBuildPrompt_EmbedsAggregates(t *testing.T) {
	prompt := BuildPrompt(testSummary())

	for _, want := range []string{
		`"Drama": 2`,
		`"Comedy": 1`,
		`"Jane Doe": 3`,
		`"PG-13": 1`,
		"4-5 sentences",
		"business stakeholders",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	if BuildPrompt(testSummary()) != BuildPrompt(testSummary()) {
		t.Fatal("identical summaries produced different prompts")
	}
}

func TestSummarize_AgainstFakeService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Drama dominates the catalog.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	s := New(config.Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: srv.URL,
		SummaryModel:  "gpt-4o-mini",
	}, logger.New().WithComponent("narrative"))
	if s == nil {
		t.Fatal("expected summarizer")
	}

	got, err := s.Summarize(context.Background(), testSummary())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "Drama dominates the catalog." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestSummarize_ServiceFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not available"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := New(config.Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: srv.URL,
		SummaryModel:  "gpt-4o-mini",
	}, logger.New().WithComponent("narrative"))

	if _, err := s.Summarize(context.Background(), testSummary()); err == nil {
		t.Fatal("expected error from failing service")
	}
}
