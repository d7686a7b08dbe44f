package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/ports"
)

const (
	defaultGeminiModel  = "gemini-2.5-flash"
	fallbackGeminiModel = "gemini-2.5-flash-lite"
)

// GeminiClient implements ports.Oracle on the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	models    []string
	maxTokens int32
}

var _ ports.Oracle = (*GeminiClient)(nil)

// NewGeminiClient connects to the Gemini API. A model name in another provider's
// format falls back to the default Gemini model.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client, baseURL string) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" || strings.Contains(model, "/") {
		model = defaultGeminiModel
	}
	models := []string{model}
	if model != fallbackGeminiModel {
		models = append(models, fallbackGeminiModel)
	}

	return &GeminiClient{client: client, models: models, maxTokens: int32(cfg.MaxTokens)}, nil
}

// Complete runs the prompt on the configured model, moving to the lighter model when
// the first one is rate limited or unavailable.
func (g *GeminiClient) Complete(ctx context.Context, system, human string) (string, error) {
	prompt := strings.TrimSpace(human)
	if prompt == "" {
		prompt = strings.TrimSpace(system)
		system = ""
	}
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}

	genCfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if s := strings.TrimSpace(system); s != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	if g.maxTokens > 0 {
		genCfg.MaxOutputTokens = g.maxTokens
	}

	var lastErr error
	for _, model := range g.models {
		result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), genCfg)
		if err != nil {
			if retryable(err) {
				lastErr = err
				continue
			}
			return "", fmt.Errorf("gemini %s: %w", model, err)
		}

		if text := result.Text(); text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("gemini %s returned no text", model)
	}

	return "", fmt.Errorf("all gemini models failed: %w", lastErr)
}

func retryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "exhausted", "404", "not found", "503", "unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
