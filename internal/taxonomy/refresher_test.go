package taxonomy

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

type fakeSource struct {
	mu       sync.Mutex
	concepts map[types.ConceptType][]types.Concept
	failing  map[types.ConceptType]bool
	fetched  []types.ConceptType
}

func (s *fakeSource) FetchConcepts(_ context.Context, typ types.ConceptType, _ int) ([]types.Concept, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, typ)
	s.mu.Unlock()

	if s.failing[typ] {
		return nil, &SourceError{Type: typ, Message: "upstream unavailable"}
	}
	return s.concepts[typ], nil
}

type fakeConceptStore struct {
	mu       sync.Mutex
	replaced map[types.ConceptType][]types.Concept
	failing  map[types.ConceptType]bool
}

func (s *fakeConceptStore) ReplaceConcepts(_ context.Context, typ types.ConceptType, _ int, concepts []types.Concept) (int, error) {
	if s.failing[typ] {
		return 0, fmt.Errorf("failed to replace concepts: connection reset")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaced == nil {
		s.replaced = make(map[types.ConceptType][]types.Concept)
	}
	s.replaced[typ] = concepts
	return len(concepts), nil
}

func sampleConcepts(typ types.ConceptType, n int) []types.Concept {
	concepts := make([]types.Concept, 0, n)
	for i := 0; i < n; i++ {
		concepts = append(concepts, types.Concept{
			ConceptID: fmt.Sprintf("%s-%d", typ, i),
			Type:      typ,
			Version:   1,
			Label:     fmt.Sprintf("Label %d", i),
		})
	}
	return concepts
}

func TestRefreshType_ReplacesStoredConcepts(t *testing.T) {
	source := &fakeSource{concepts: map[types.ConceptType][]types.Concept{
		types.ConceptOccupation: sampleConcepts(types.ConceptOccupation, 4),
	}}
	store := &fakeConceptStore{}
	refresher := NewRefresher(source, store, 1, zap.NewNop())

	count, err := refresher.RefreshType(context.Background(), types.ConceptOccupation)
	require.NoError(t, err)

	assert.Equal(t, 4, count)
	assert.Len(t, store.replaced[types.ConceptOccupation], 4)
}

func TestRefreshType_SourceErrorLeavesStoreUntouched(t *testing.T) {
	source := &fakeSource{failing: map[types.ConceptType]bool{types.ConceptOccupation: true}}
	store := &fakeConceptStore{}
	refresher := NewRefresher(source, store, 1, zap.NewNop())

	_, err := refresher.RefreshType(context.Background(), types.ConceptOccupation)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Empty(t, store.replaced)
}

func TestRefreshAll_AllTypesSucceed(t *testing.T) {
	concepts := make(map[types.ConceptType][]types.Concept)
	for i, typ := range types.AllConceptTypes {
		concepts[typ] = sampleConcepts(typ, i+1)
	}
	source := &fakeSource{concepts: concepts}
	store := &fakeConceptStore{}
	refresher := NewRefresher(source, store, 1, zap.NewNop())

	result := refresher.RefreshAll(context.Background())

	assert.False(t, result.Failed())
	assert.Len(t, result.Counts, len(types.AllConceptTypes))
	for i, typ := range types.AllConceptTypes {
		assert.Equal(t, i+1, result.Counts[typ])
	}
}

func TestRefreshAll_OneTypeFailureDoesNotAbortOthers(t *testing.T) {
	concepts := make(map[types.ConceptType][]types.Concept)
	for _, typ := range types.AllConceptTypes {
		concepts[typ] = sampleConcepts(typ, 2)
	}
	source := &fakeSource{
		concepts: concepts,
		failing:  map[types.ConceptType]bool{types.ConceptMunicipality: true},
	}
	store := &fakeConceptStore{}
	refresher := NewRefresher(source, store, 1, zap.NewNop())

	result := refresher.RefreshAll(context.Background())

	assert.True(t, result.Failed())
	require.Len(t, result.Errors, 1)
	assert.Error(t, result.Errors[types.ConceptMunicipality])

	// Every other type still refreshed.
	assert.Len(t, result.Counts, len(types.AllConceptTypes)-1)
	assert.NotContains(t, result.Counts, types.ConceptMunicipality)
	assert.NotContains(t, store.replaced, types.ConceptMunicipality)

	// The failing type was still attempted.
	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Len(t, source.fetched, len(types.AllConceptTypes))
}

func TestRefreshAll_StoreFailureRecordedPerType(t *testing.T) {
	concepts := make(map[types.ConceptType][]types.Concept)
	for _, typ := range types.AllConceptTypes {
		concepts[typ] = sampleConcepts(typ, 2)
	}
	source := &fakeSource{concepts: concepts}
	store := &fakeConceptStore{failing: map[types.ConceptType]bool{types.ConceptWageType: true}}
	refresher := NewRefresher(source, store, 1, zap.NewNop())

	result := refresher.RefreshAll(context.Background())

	assert.True(t, result.Failed())
	assert.Error(t, result.Errors[types.ConceptWageType])
	assert.Len(t, result.Counts, len(types.AllConceptTypes)-1)
}
