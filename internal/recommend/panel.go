package recommend

import (
	"context"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"go.uber.org/zap"
)

type PanelState int

const (
	PanelClosed PanelState = iota
	PanelLoading
	PanelReady
	PanelFailed
)

func (s PanelState) String() string {
	switch s {
	case PanelClosed:
		return "closed"
	case PanelLoading:
		return "loading"
	case PanelReady:
		return "ready"
	case PanelFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PanelView is a consistent read of the panel for rendering.
type PanelView struct {
	State    PanelState
	Product  catalog.Product
	Analysis *Analysis
	Error    string
}

// Panel holds at most one analysis for the product it is open on. Opening
// the panel again, or closing it, supersedes the in-flight request; a late
// completion for a superseded request is dropped.
type Panel struct {
	analyzer Analyzer
	logger   *zap.Logger

	mu       sync.Mutex
	token    uint64
	state    PanelState
	product  catalog.Product
	analysis *Analysis
	errMsg   string
}

func NewPanel(analyzer Analyzer, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{analyzer: analyzer, logger: logger.Named("recommend.panel")}
}

// Open shows the panel for p and runs the analysis. It blocks until the
// analyzer returns; callers that need to stay responsive call Begin and run
// Run on a goroutine.
func (pn *Panel) Open(ctx context.Context, p catalog.Product) PanelView {
	v, _ := pn.Run(ctx, pn.Begin(p))
	return v
}

// Run analyzes the product opened under token and applies the result.
// applied is false when the panel was closed or reopened in the meantime.
// The analyzer is skipped if that happened before Run started.
func (pn *Panel) Run(ctx context.Context, token uint64) (v PanelView, applied bool) {
	pn.mu.Lock()
	current := token == pn.token && pn.state == PanelLoading
	p := pn.product
	pn.mu.Unlock()
	if !current {
		return pn.View(), false
	}

	a, err := pn.analyzer.Analyze(ctx, p)
	applied = pn.Complete(token, a, err)
	return pn.View(), applied
}

// Begin enters Loading for p, discarding any previous analysis, and returns
// the token the caller must pass to Complete.
func (pn *Panel) Begin(p catalog.Product) uint64 {
	pn.mu.Lock()
	defer pn.mu.Unlock()

	pn.token++
	pn.state = PanelLoading
	pn.product = p
	pn.analysis = nil
	pn.errMsg = ""
	return pn.token
}

// Complete applies an analysis result. It returns false if token is stale.
func (pn *Panel) Complete(token uint64, a Analysis, err error) bool {
	pn.mu.Lock()
	defer pn.mu.Unlock()

	if token != pn.token || pn.state != PanelLoading {
		pn.logger.Debug("discarding stale analysis",
			zap.Uint64("token", token), zap.Uint64("current", pn.token))
		return false
	}

	if err != nil {
		pn.state = PanelFailed
		pn.analysis = nil
		pn.errMsg = UserMessage(err)
		return true
	}

	pn.state = PanelReady
	pn.analysis = &a
	pn.errMsg = ""
	return true
}

// Close hides the panel and invalidates any in-flight request.
func (pn *Panel) Close() {
	pn.mu.Lock()
	defer pn.mu.Unlock()

	pn.token++
	pn.state = PanelClosed
	pn.product = catalog.Product{}
	pn.analysis = nil
	pn.errMsg = ""
}

func (pn *Panel) View() PanelView {
	pn.mu.Lock()
	defer pn.mu.Unlock()

	v := PanelView{State: pn.state, Product: pn.product, Error: pn.errMsg}
	if pn.analysis != nil {
		a := *pn.analysis
		a.Pros = append([]string(nil), a.Pros...)
		a.Cons = append([]string(nil), a.Cons...)
		v.Analysis = &a
	}
	return v
}
