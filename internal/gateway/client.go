package gateway

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/calibrex/grading-controller/internal/grading"
)

// #endregion

// #region client

// Client implements Validator and ToneAnalyzer over a chat-completion API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a gateway client for the given API key and model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// NewClientWithAPI creates a Client with an injected API handle.
// Used for testing without network access.
func NewClientWithAPI(api *openai.Client, model string) *Client {
	return &Client{api: api, model: model}
}

// #endregion

// #region validate

// validationReply mirrors the JSON object the model is instructed to return.
type validationReply struct {
	Status              string `json:"status"`
	ReferencedExcerpt   string `json:"referencedExcerpt"`
	SuggestedRefinement string `json:"suggestedRefinement"`
}

const validateSystemPrompt = `You are a grading assistant. You validate a professor's scoring explanation against a student's submission and reply with a strict JSON object: {"status": "Supported" | "Partial" | "Not Supported", "referencedExcerpt": string, "suggestedRefinement": string}. referencedExcerpt is a short quote from the submission that supports or contradicts the explanation. suggestedRefinement is empty when the status is Supported.`

// Validate asks the collaborator whether the explanation is supported by the
// submission. Failures come back as a StatusError analysis with a generic
// message; the detailed cause is in the returned *GatewayError.
func (c *Client) Validate(ctx context.Context, req ValidationRequest) (grading.AIAnalysis, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Submission:\n%s\n\n", req.SubmissionText)
	fmt.Fprintf(&sb, "Criterion: %q - %s (max score %d)\n", req.Criterion.Name, req.Criterion.Description, req.Criterion.MaxScore)
	fmt.Fprintf(&sb, "Assigned score: %d\n", req.Score)
	fmt.Fprintf(&sb, "Professor's explanation: %q\n", req.Explanation)
	if req.HighlightedText != "" {
		fmt.Fprintf(&sb, "Professor highlighted this text: %q\n", req.HighlightedText)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: validateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return errorAnalysis(), &GatewayError{Op: "validate", Err: err}
	}
	if len(resp.Choices) == 0 {
		return errorAnalysis(), &GatewayError{Op: "validate", Err: fmt.Errorf("no choices in response")}
	}

	var reply validationReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Choices[0].Message.Content)), &reply); err != nil {
		return errorAnalysis(), &GatewayError{Op: "validate", Err: fmt.Errorf("parse reply: %w", err)}
	}

	return grading.AIAnalysis{
		Status:              parseStatus(reply.Status),
		ReferencedExcerpt:   reply.ReferencedExcerpt,
		SuggestedRefinement: reply.SuggestedRefinement,
	}, nil
}

// parseStatus maps the model's status string onto the enum, falling back to
// StatusError for anything unexpected.
func parseStatus(s string) grading.ValidationStatus {
	switch s {
	case "Supported":
		return grading.StatusSupported
	case "Partial":
		return grading.StatusPartial
	case "Not Supported":
		return grading.StatusNotSupported
	default:
		log.Printf("[GATEWAY] unexpected validation status %q", s)
		return grading.StatusError
	}
}

func errorAnalysis() grading.AIAnalysis {
	return grading.AIAnalysis{
		Status: grading.StatusError,
		Err:    "AI analysis failed.",
	}
}

// #endregion

// #region analyze-tone

const tonePrompt = `Analyze the tone of the following explanation a professor wrote for a student's grade. Describe its general sentiment (e.g. constructive, critical, neutral, empathetic, overly harsh, too vague) in one brief sentence.`

// AnalyzeTone returns a one-line free-text tone description.
func (c *Client) AnalyzeTone(ctx context.Context, explanation string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: tonePrompt},
			{Role: openai.ChatMessageRoleUser, Content: explanation},
		},
	})
	if err != nil {
		return "", &GatewayError{Op: "analyze_tone", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Op: "analyze_tone", Err: fmt.Errorf("no choices in response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// #endregion
