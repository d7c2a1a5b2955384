package catalog

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// LoadFailedMessage is shown whenever the catalog fetch fails, regardless
// of the underlying cause.
const LoadFailedMessage = "Failed to load products. Please try again."

// ErrStale is returned by Load when a newer load started before this one
// finished. Its result was dropped.
var ErrStale = errors.New("catalog load superseded")

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Lister fetches the full product catalog.
type Lister interface {
	List(ctx context.Context) ([]Product, error)
}

// Snapshot is a consistent read of the view-model for rendering.
type Snapshot struct {
	State      State
	Message    string
	Criteria   FilterCriteria
	Visible    []Product
	Categories []string
	Total      int
}

// Empty reports whether the empty-state view should be shown.
func (s Snapshot) Empty() bool { return s.State == StateReady && len(s.Visible) == 0 }

// ViewModel owns the fetched catalog, the active filter criteria and the
// derived visible list. Each fetch is tagged with a generation; a completion
// whose generation is no longer current is discarded.
type ViewModel struct {
	src    Lister
	logger *zap.Logger

	mu         sync.RWMutex
	state      State
	generation uint64
	products   []Product
	criteria   FilterCriteria
	visible    []Product
	categories []string
	message    string
}

func NewViewModel(src Lister, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		src:        src,
		logger:     logger.Named("catalog"),
		criteria:   DefaultCriteria(),
		categories: []string{AllCategories},
	}
}

// Load fetches the catalog (on mount). Retry is the same transition. It
// returns ErrStale, whatever the fetch outcome, when the result was dropped.
func (vm *ViewModel) Load(ctx context.Context) error {
	gen := vm.Begin()
	products, err := vm.src.List(ctx)
	if !vm.Complete(gen, products, err) {
		return ErrStale
	}
	return err
}

func (vm *ViewModel) Retry(ctx context.Context) error { return vm.Load(ctx) }

// Begin enters Loading and returns the generation the caller must pass to
// Complete.
func (vm *ViewModel) Begin() uint64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.generation++
	vm.state = StateLoading
	vm.message = ""
	return vm.generation
}

// Complete applies a fetch result. It returns false when gen has been
// superseded and the result was dropped.
func (vm *ViewModel) Complete(gen uint64, products []Product, err error) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if gen != vm.generation {
		vm.logger.Debug("discarding stale catalog result",
			zap.Uint64("generation", gen), zap.Uint64("current", vm.generation))
		return false
	}

	if err != nil {
		vm.logger.Error("fetch products failed", zap.Error(err))
		vm.state = StateFailed
		vm.message = LoadFailedMessage
		return true
	}

	vm.products = products
	vm.categories = CategoryOptions(products)
	vm.state = StateReady
	vm.message = ""
	vm.recomputeLocked()
	return true
}

func (vm *ViewModel) SetSearch(s string) {
	vm.update(func(c *FilterCriteria) { c.Search = s })
}

func (vm *ViewModel) SetCategory(category string) {
	vm.update(func(c *FilterCriteria) { c.Category = category })
}

func (vm *ViewModel) SetPriceRange(r PriceRange) {
	vm.update(func(c *FilterCriteria) { c.PriceRange = r })
}

func (vm *ViewModel) SetSort(k SortKey) {
	vm.update(func(c *FilterCriteria) { c.Sort = k })
}

func (vm *ViewModel) SetCriteria(criteria FilterCriteria) {
	vm.update(func(c *FilterCriteria) { *c = criteria })
}

// ClearFilters resets every criterion to its default in one update.
func (vm *ViewModel) ClearFilters() {
	vm.SetCriteria(DefaultCriteria())
}

func (vm *ViewModel) update(fn func(*FilterCriteria)) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	fn(&vm.criteria)
	vm.recomputeLocked()
}

func (vm *ViewModel) recomputeLocked() {
	vm.visible = ComputeVisible(vm.products, vm.criteria)
}

func (vm *ViewModel) State() State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.state
}

// Product looks up a product in the fetched catalog.
func (vm *ViewModel) Product(id int64) (Product, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	for _, p := range vm.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	s := Snapshot{
		State:      vm.state,
		Message:    vm.message,
		Criteria:   vm.criteria,
		Categories: append([]string(nil), vm.categories...),
		Total:      len(vm.products),
	}
	if vm.state == StateReady {
		s.Visible = append([]Product(nil), vm.visible...)
	}
	return s
}
