package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// Model is fixed; it is not user selectable.
	Model = "gemini-2.5-flash"
)

// Messages surfaced to the user for direct provider failures.
const (
	MsgNotConfigured   = "AI recommendation service is not configured. Please set GOOGLE_API_KEY or GEMINI_API_KEY environment variable."
	MsgUnavailable     = "AI recommendation service is temporarily unavailable"
	MsgInvalidResponse = "AI recommendation service returned an invalid response"
)

const maxResponseBody = 1 << 20

// GeminiAnalyzer calls the Gemini generateContent API directly.
type GeminiAnalyzer struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewGeminiAnalyzer(apiKey, baseURL string, httpClient *http.Client, logger *zap.Logger) *GeminiAnalyzer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiAnalyzer{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.Named("recommend.gemini"),
	}
}

// Configured reports whether an API key is set.
func (g *GeminiAnalyzer) Configured() bool { return g.apiKey != "" }

func (g *GeminiAnalyzer) Analyze(ctx context.Context, p catalog.Product) (Analysis, error) {
	if !g.Configured() {
		g.logger.Error("gemini request failed - API key not configured")
		return Analysis{}, &AnalysisError{Message: MsgNotConfigured}
	}

	reqBody := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: BuildPrompt(p)}},
		}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return Analysis{}, &AnalysisError{Message: MsgUnavailable, Err: fmt.Errorf("marshal request: %w", err)}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, Model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return Analysis{}, &AnalysisError{Message: MsgUnavailable, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.logger.Error("gemini request failed - send error", zap.Int64("product_id", p.ID), zap.Error(err))
		return Analysis{}, &AnalysisError{Message: MsgUnavailable, Err: redactKey(err, g.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Analysis{}, &AnalysisError{Message: MsgUnavailable, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		g.logger.Error("gemini request failed - API error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("api_status", apiErr.Error.Status),
			zap.String("api_message", apiErr.Error.Message))
		return Analysis{}, &AnalysisError{
			Message: MsgUnavailable,
			Err:     fmt.Errorf("gemini status %d", resp.StatusCode),
		}
	}

	text, err := responseText(body)
	if err != nil {
		g.logger.Error("gemini request failed - invalid response", zap.Error(err))
		return Analysis{}, &AnalysisError{Message: MsgInvalidResponse, Err: err}
	}

	out, err := DecodeAnalysis([]byte(text))
	if err != nil {
		g.logger.Error("gemini request failed - invalid analysis", zap.Error(err))
		return Analysis{}, &AnalysisError{Message: MsgInvalidResponse, Err: err}
	}
	return out, nil
}

// responseText returns the text of the first part of the first candidate.
func responseText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("no parts in response")
	}
	if strings.TrimSpace(parts[0].Text) == "" {
		return "", errors.New("no text content in response")
	}
	return parts[0].Text, nil
}

// BuildPrompt renders the fixed analysis prompt for p.
func BuildPrompt(p catalog.Product) string {
	brand := p.Brand
	if brand == "" {
		brand = "N/A"
	}
	rating := "N/A"
	if p.Rating != nil {
		rating = fmt.Sprint(*p.Rating)
	}

	var b strings.Builder
	b.WriteString("Analyze the following product and provide a detailed recommendation with pros and cons.\n\n")
	fmt.Fprintf(&b, "Product Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Brand: %s\n", brand)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Price: $%s\n", p.Price.String())
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	fmt.Fprintf(&b, "Rating: %s/5\n", rating)
	fmt.Fprintf(&b, "Stock: %d\n\n", p.Stock)
	b.WriteString("Please provide:\n" +
		"1. A brief summary (2-3 sentences)\n" +
		"2. Pros (3-5 positive points)\n" +
		"3. Cons (3-5 negative points or areas for improvement)\n" +
		"4. A final recommendation (who should buy this product)\n\n" +
		"Respond with JSON in this exact format:\n" +
		"{\n" +
		"  \"summary\": \"Brief summary of the product\",\n" +
		"  \"pros\": [\"pro 1\", \"pro 2\", \"pro 3\"],\n" +
		"  \"cons\": [\"con 1\", \"con 2\", \"con 3\"],\n" +
		"  \"recommendation\": \"Final recommendation\"\n" +
		"}")
	return b.String()
}

// redactKey strips the API key from transport errors, which embed the URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	msg = strings.ReplaceAll(msg, key, "REDACTED")
	return errors.New(msg)
}
