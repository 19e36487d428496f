package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Params controls generation behavior for every request made by the
// client. Zero values are omitted from the wire payload.
type Params struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int

	// Block threshold applied to every harm category, e.g.
	// BLOCK_MEDIUM_AND_ABOVE. Empty skips safetySettings entirely.
	SafetyThreshold string
}

// Service is a minimal client for the Gemini generateContent API. It
// is safe for concurrent use.
type Service struct {
	logger  *logrus.Logger
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
	params  Params
}

func NewService(logger *logrus.Logger, apiKey, model, baseURL string, params Params) *Service {
	return &Service{
		logger:  logger,
		client:  &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		params:  params,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
	SafetySettings   []safetySetting   `json:"safetySettings,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	TopP            *float32 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Generate sends the prompt to the model and returns the generated
// text. It performs exactly one attempt; retry policy belongs to the
// caller.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("gemini: API key is not configured")
	}

	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: s.buildGenerationConfig(),
		SafetySettings:   s.buildSafetySettings(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp generateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("gemini: failed to parse response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("gemini: API error [%d] %s: %s",
			apiResp.Error.Code, apiResp.Error.Status, apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}

	var parts []string
	for _, p := range apiResp.Candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	text := strings.Join(parts, "")
	if text == "" {
		return "", errors.New("gemini: empty text in response")
	}

	s.logger.WithFields(logrus.Fields{
		"model":         s.model,
		"response_len":  len(text),
		"finish_reason": apiResp.Candidates[0].FinishReason,
	}).Debug("Received Gemini response")

	return text, nil
}

func (s *Service) buildGenerationConfig() *generationConfig {
	cfg := &generationConfig{}
	hasConfig := false

	if s.params.Temperature > 0 {
		t := s.params.Temperature
		cfg.Temperature = &t
		hasConfig = true
	}
	if s.params.TopP > 0 {
		p := s.params.TopP
		cfg.TopP = &p
		hasConfig = true
	}
	if s.params.TopK > 0 {
		k := s.params.TopK
		cfg.TopK = &k
		hasConfig = true
	}
	if s.params.MaxOutputTokens > 0 {
		m := s.params.MaxOutputTokens
		cfg.MaxOutputTokens = &m
		hasConfig = true
	}

	if hasConfig {
		return cfg
	}
	return nil
}

func (s *Service) buildSafetySettings() []safetySetting {
	if s.params.SafetyThreshold == "" {
		return nil
	}
	settings := make([]safetySetting, len(harmCategories))
	for i, cat := range harmCategories {
		settings[i] = safetySetting{Category: cat, Threshold: s.params.SafetyThreshold}
	}
	return settings
}
