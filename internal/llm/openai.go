package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	openaiBaseURL       = "https://api.openai.com"
	openaiImagesPath    = "/v1/images/generations"
	defaultImageSize    = "1024x1024"
	defaultImageQuality = "standard"
	imageResponseFormat = "url"
	maxErrorBodyBytes   = 4096
)

// shared HTTP client for OpenAI API calls
// image synthesis is slow, so the total timeout is generous
var openaiHTTPClient = &http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for OpenAI image calls (5 requests/second with burst capacity of 5)
var openaiRateLimiter = rate.NewLimiter(5, 5)

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type openaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

type OpenAIConfig struct {
	APIKey string
	Model  string // e.g., "dall-e-3"
}

type OpenAIImageGenerator struct {
	config     OpenAIConfig
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type OpenAIOption func(*OpenAIImageGenerator)

// points the generator at a different API host
func WithBaseURL(baseURL string) OpenAIOption {
	return func(g *OpenAIImageGenerator) { g.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(g *OpenAIImageGenerator) { g.httpClient = client }
}

func NewOpenAIImageGenerator(config OpenAIConfig, opts ...OpenAIOption) (*OpenAIImageGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	if config.Model == "" {
		config.Model = defaultImageModel
	}

	g := &OpenAIImageGenerator{
		config:     config,
		baseURL:    openaiBaseURL,
		httpClient: openaiHTTPClient, // use shared client with proper timeouts and connection pooling
		limiter:    openaiRateLimiter,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *OpenAIImageGenerator) Model() string {
	return g.config.Model
}

func (g *OpenAIImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if req.Size == "" {
		req.Size = defaultImageSize
	}

	if req.Quality == "" {
		req.Quality = defaultImageQuality
	}

	reqBody := imageGenerationRequest{
		Model:          g.config.Model,
		Prompt:         req.Prompt,
		N:              1,
		Size:           req.Size,
		Quality:        req.Quality,
		ResponseFormat: imageResponseFormat,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+openaiImagesPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	// rate limiting
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes)) //nolint:errcheck
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var imgResp imageGenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&imgResp); err != nil {
		return nil, fmt.Errorf("openai: failed to decode response: %w", err)
	}

	if len(imgResp.Data) == 0 || strings.TrimSpace(imgResp.Data[0].URL) == "" {
		return nil, ErrNoImage
	}

	return &ImageResult{
		URL:           imgResp.Data[0].URL,
		RevisedPrompt: imgResp.Data[0].RevisedPrompt,
	}, nil
}

// pulls the provider's message out of an error body, falling back to the raw text
func errorMessage(body []byte) string {
	var apiErr openaiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}

	return strings.TrimSpace(string(body))
}
