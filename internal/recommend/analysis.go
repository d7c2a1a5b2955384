// Package recommend produces AI-generated product analyses and drives the
// recommendation panel that displays them.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// Analysis is the structured result shown in the recommendation panel.
type Analysis struct {
	Summary        string   `json:"summary"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Recommendation string   `json:"recommendation"`
}

// Analyzer returns an analysis of a single product.
type Analyzer interface {
	Analyze(ctx context.Context, p catalog.Product) (Analysis, error)
}

// AnalysisError is returned for any failed analysis. Message is shown to the
// user as is.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// UserMessage returns the text to display for err.
func UserMessage(err error) string {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

var errEmptyBody = errors.New("empty response body")

// wireAnalysis mirrors Analysis with pointer fields so that absent keys can
// be told apart from empty values.
type wireAnalysis struct {
	Summary        *string   `json:"summary"`
	Pros           *[]string `json:"pros"`
	Cons           *[]string `json:"cons"`
	Recommendation *string   `json:"recommendation"`
}

// DecodeAnalysis parses raw into an Analysis. All four fields must be
// present.
func DecodeAnalysis(raw []byte) (Analysis, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Analysis{}, errEmptyBody
	}

	var w wireAnalysis
	if err := json.Unmarshal(raw, &w); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	var missing []string
	if w.Summary == nil {
		missing = append(missing, "summary")
	}
	if w.Pros == nil {
		missing = append(missing, "pros")
	}
	if w.Cons == nil {
		missing = append(missing, "cons")
	}
	if w.Recommendation == nil {
		missing = append(missing, "recommendation")
	}
	if len(missing) > 0 {
		return Analysis{}, fmt.Errorf("analysis missing fields: %s", strings.Join(missing, ", "))
	}

	return Analysis{
		Summary:        *w.Summary,
		Pros:           *w.Pros,
		Cons:           *w.Cons,
		Recommendation: *w.Recommendation,
	}, nil
}
