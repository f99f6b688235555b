package taxonomy

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// ConceptStore is the persistence surface the refresher writes through.
type ConceptStore interface {
	ReplaceConcepts(ctx context.Context, typ types.ConceptType, version int, concepts []types.Concept) (int, error)
}

// Source fetches all concepts of one (type, version) pair.
type Source interface {
	FetchConcepts(ctx context.Context, typ types.ConceptType, version int) ([]types.Concept, error)
}

// Result reports the outcome of one refresh run: per-type counts for the
// types that refreshed, per-type errors for those that did not.
type Result struct {
	Counts map[types.ConceptType]int
	Errors map[types.ConceptType]error
}

// Failed reports whether any type failed to refresh.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Refresher replaces the stored vocabulary of each concept type with
// freshly fetched data. Types degrade independently: one type's failure
// leaves its prior data intact and never aborts the other types.
type Refresher struct {
	source  Source
	store   ConceptStore
	version int
	logger  *zap.Logger
}

// NewRefresher creates a refresher for the given taxonomy version.
func NewRefresher(source Source, store ConceptStore, version int, logger *zap.Logger) *Refresher {
	return &Refresher{
		source:  source,
		store:   store,
		version: version,
		logger:  logger,
	}
}

// RefreshType replaces the stored concepts of a single type.
func (r *Refresher) RefreshType(ctx context.Context, typ types.ConceptType) (int, error) {
	concepts, err := r.source.FetchConcepts(ctx, typ, r.version)
	if err != nil {
		return 0, err
	}

	count, err := r.store.ReplaceConcepts(ctx, typ, r.version, concepts)
	if err != nil {
		return 0, err
	}

	r.logger.Info("taxonomy type refreshed",
		zap.String("type", string(typ)),
		zap.Int("version", r.version),
		zap.Int("count", count))
	return count, nil
}

// RefreshAll refreshes every concept type, types in parallel. Within one
// type pagination stays sequential inside the source client.
func (r *Refresher) RefreshAll(ctx context.Context) *Result {
	result := &Result{
		Counts: make(map[types.ConceptType]int),
		Errors: make(map[types.ConceptType]error),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, typ := range types.AllConceptTypes {
		g.Go(func() error {
			count, err := r.RefreshType(ctx, typ)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("taxonomy type refresh failed, keeping prior data",
					zap.String("type", string(typ)),
					zap.Error(err))
				result.Errors[typ] = err
				// Failure of one type must not cancel the others.
				return nil
			}
			result.Counts[typ] = count
			return nil
		})
	}

	_ = g.Wait()
	return result
}
