package recommend

import (
	"context"
	"encoding/json"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"go.uber.org/zap"
)

// RecommendationFetcher returns the backend's raw analysis for a product.
type RecommendationFetcher interface {
	Recommendation(ctx context.Context, id int64) (json.RawMessage, error)
}

// ProxyAnalyzer asks the backend to run the analysis, keeping the provider
// key on the server.
type ProxyAnalyzer struct {
	src    RecommendationFetcher
	logger *zap.Logger
}

func NewProxyAnalyzer(src RecommendationFetcher, logger *zap.Logger) *ProxyAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyAnalyzer{src: src, logger: logger.Named("recommend.proxy")}
}

func (a *ProxyAnalyzer) Analyze(ctx context.Context, p catalog.Product) (Analysis, error) {
	raw, err := a.src.Recommendation(ctx, p.ID)
	if err != nil {
		a.logger.Error("analyze product failed", zap.Int64("product_id", p.ID), zap.Error(err))
		if msg := clients.ServerMessage(err); msg != "" {
			return Analysis{}, &AnalysisError{Message: msg, Err: err}
		}
		return Analysis{}, &AnalysisError{Message: "Failed to analyze product: " + err.Error(), Err: err}
	}

	out, err := DecodeAnalysis(raw)
	if err != nil {
		a.logger.Error("invalid analysis body", zap.Int64("product_id", p.ID), zap.Error(err))
		return Analysis{}, &AnalysisError{Message: MsgInvalidResponse, Err: err}
	}
	return out, nil
}
