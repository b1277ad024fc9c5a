package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/recipereel/colette/internal/httpclient"
	"github.com/recipereel/colette/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Errors matching the AI structuring collaborator contract.
var (
	ErrServiceUnavailable = errors.New("structuring service unavailable")
	ErrInvalidResponse    = errors.New("invalid structuring response")
)

// RecipePayload is the wire shape the structuring service returns. It
// mirrors the recipe fields one-to-one so the AI strategy only validates and
// copies, never reinterprets.
type RecipePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients []struct {
		Item   string `json:"item"`
		Amount string `json:"amount"`
		Unit   string `json:"unit"`
	} `json:"ingredients"`
	Steps []struct {
		Order    int    `json:"order"`
		Text     string `json:"text"`
		Duration string `json:"duration"`
		Tip      string `json:"tip"`
	} `json:"steps"`
	TotalDuration string   `json:"total_duration"`
	PrepTime      string   `json:"prep_time"`
	CookTime      string   `json:"cook_time"`
	Difficulty    string   `json:"difficulty"`
	Servings      string   `json:"servings"`
	Calories      string   `json:"calories"`
	Tips          []string `json:"tips"`
	Language      string   `json:"language"`
}

// Structurer is the text-in/structured-text-out contract of the external
// language model service.
type Structurer interface {
	Structure(ctx context.Context, caption, platform, language string) (*RecipePayload, error)
}

const defaultModel = "llama-3.3-70b-versatile"

// Client calls a Groq-compatible chat completions endpoint with a JSON
// response format.
type Client struct {
	apiKey   string
	endpoint string
	model    string
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: "https://api.groq.com/openai/v1/chat/completions",
		model:    defaultModel,
	}
}

// WithModel overrides the default model.
func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

// Structure sends the caption and target language to the model and decodes
// the structured reply. It reports failure, it never falls back.
func (c *Client) Structure(ctx context.Context, caption, platform, language string) (*RecipePayload, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{attribute.String("provider", "groq")}
		metrics.AIStructuringDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	req := chatRequest{Model: c.model}
	req.ResponseFormat.Type = "json_object"
	req.Messages = []chatMessage{
		{Role: "system", Content: BuildStructuringPrompt(platform)},
		{Role: "user", Content: fmt.Sprintf("Target language: %s\n\nCaption:\n%s", language, caption)},
	}

	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Groq"), "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpclient.InstrumentedClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, string(respBody))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrInvalidResponse)
	}

	var payload RecipePayload
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &payload, nil
}
