package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/calibrex/grading-controller/internal/grading"
	"github.com/calibrex/grading-controller/internal/rubric"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewClientWithAPI(openai.NewClientWithConfig(cfg), "test-model")
}

// chatReply serves a minimal chat-completion response whose single choice
// carries the given content.
func chatReply(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func testRequest() ValidationRequest {
	return ValidationRequest{
		SubmissionText: "The green light at the end of Daisy's dock becomes a powerful symbol.",
		Criterion:      rubric.Criterion{ID: "crit1", Name: "Thesis Clarity", Description: "Clarity of the thesis.", MaxScore: 5},
		Score:          4,
		Explanation:    "The student engages the novel's central symbol.",
	}
}

func TestValidateParsesReply(t *testing.T) {
	c := newTestClient(t, chatReply(
		`{"status":"Partial","referencedExcerpt":"the green light","suggestedRefinement":"Name the dock passage directly."}`,
	))

	analysis, err := c.Validate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if analysis.Status != grading.StatusPartial {
		t.Errorf("status = %s, want Partial", analysis.Status)
	}
	if analysis.ReferencedExcerpt != "the green light" {
		t.Errorf("excerpt = %q", analysis.ReferencedExcerpt)
	}
	if analysis.SuggestedRefinement != "Name the dock passage directly." {
		t.Errorf("refinement = %q", analysis.SuggestedRefinement)
	}
}

func TestValidateUnknownStatus(t *testing.T) {
	c := newTestClient(t, chatReply(`{"status":"Maybe"}`))

	analysis, err := c.Validate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if analysis.Status != grading.StatusError {
		t.Errorf("status = %s, want Error for unknown verdict", analysis.Status)
	}
}

func TestValidateMalformedReply(t *testing.T) {
	c := newTestClient(t, chatReply(`the model ignored the format instruction`))

	analysis, err := c.Validate(context.Background(), testRequest())
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if gwErr.Op != "validate" {
		t.Errorf("op = %q", gwErr.Op)
	}
	if analysis.Status != grading.StatusError || analysis.Err == "" {
		t.Errorf("analysis = %+v, want error placeholder", analysis)
	}
}

func TestValidateTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	})

	analysis, err := c.Validate(context.Background(), testRequest())
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if analysis.Status != grading.StatusError {
		t.Errorf("status = %s, want Error", analysis.Status)
	}
}

func TestAnalyzeToneTrimsReply(t *testing.T) {
	c := newTestClient(t, chatReply("  Constructive and specific.  "))

	tone, err := c.AnalyzeTone(context.Background(), "Strong use of textual evidence throughout.")
	if err != nil {
		t.Fatalf("analyze tone: %v", err)
	}
	if tone != "Constructive and specific." {
		t.Errorf("tone = %q", tone)
	}
}
