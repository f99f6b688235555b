package publish

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rekrytera/jobad-publisher/internal/compliance"
	"github.com/rekrytera/jobad-publisher/internal/platsbanken"
	"github.com/rekrytera/jobad-publisher/internal/resolve"
	"github.com/rekrytera/jobad-publisher/internal/types"
)

// fakeStore keeps one job in memory and records state transitions.
type fakeStore struct {
	job         *types.JobAd
	beginDenied bool

	states          []types.SyncState
	finishedWith    string
	failedWith      *types.RemoteError
	resolutionSaves int
}

func (f *fakeStore) GetJobAd(_ context.Context, id uuid.UUID) (*types.JobAd, error) {
	if f.job == nil || f.job.ID != id {
		return nil, nil
	}
	return f.job, nil
}

func (f *fakeStore) SaveResolution(_ context.Context, job *types.JobAd, state types.SyncState) error {
	f.resolutionSaves++
	f.job = job
	f.job.SyncState = state
	f.states = append(f.states, state)
	return nil
}

func (f *fakeStore) SetSyncState(_ context.Context, _ uuid.UUID, state types.SyncState) error {
	f.job.SyncState = state
	f.states = append(f.states, state)
	return nil
}

func (f *fakeStore) BeginPublish(_ context.Context, _ uuid.UUID) (types.SyncState, error) {
	if f.beginDenied {
		return "", nil
	}
	switch f.job.SyncState {
	case types.SyncValid, types.SyncPublished, types.SyncError:
	default:
		return "", nil
	}
	state := types.SyncPublishing
	if f.job.RemoteAdID != nil {
		state = types.SyncUpdating
	}
	f.job.SyncState = state
	f.states = append(f.states, state)
	return state, nil
}

func (f *fakeStore) FinishPublish(_ context.Context, _ uuid.UUID, remoteAdID string) error {
	f.finishedWith = remoteAdID
	if f.job.RemoteAdID == nil {
		f.job.RemoteAdID = &remoteAdID
	}
	f.job.SyncState = types.SyncPublished
	f.job.LastError = nil
	f.states = append(f.states, types.SyncPublished)
	return nil
}

func (f *fakeStore) FailPublish(_ context.Context, _ uuid.UUID, remoteErr *types.RemoteError) error {
	f.failedWith = remoteErr
	f.job.LastError = remoteErr
	f.job.SyncState = types.SyncError
	f.states = append(f.states, types.SyncError)
	return nil
}

// fakeRemote returns canned outcomes and records calls.
type fakeRemote struct {
	outcome *platsbanken.Outcome

	createCalls int
	updateCalls int
	updatedAdID string
}

func (f *fakeRemote) CreateAd(_ context.Context, _ *platsbanken.Payload) *platsbanken.Outcome {
	f.createCalls++
	return f.outcome
}

func (f *fakeRemote) UpdateAd(_ context.Context, remoteAdID string, _ *platsbanken.Payload) *platsbanken.Outcome {
	f.updateCalls++
	f.updatedAdID = remoteAdID
	return f.outcome
}

// fakeResolver fills fixed concept identifiers.
type fakeResolver struct {
	occupation   string
	municipality string
	outcome      resolve.Outcome
}

func (f *fakeResolver) Resolve(_ context.Context, job *types.JobAd) (*resolve.Outcome, error) {
	if f.occupation != "" && job.OccupationConceptID == nil {
		job.OccupationConceptID = &f.occupation
	}
	if f.municipality != "" && job.MunicipalityConceptID == nil {
		job.MunicipalityConceptID = &f.municipality
	}
	out := f.outcome
	return &out, nil
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func validTestJob() *types.JobAd {
	date := fixedNow.AddDate(0, 0, 30)
	return &types.JobAd{
		ID:                      uuid.New(),
		OccupationConceptID:     strPtr("occ-id"),
		MunicipalityConceptID:   strPtr("mun-id"),
		EmploymentTypeConceptID: strPtr(types.ConceptIDVanligAnstallning),
		DurationConceptID:       strPtr(types.ConceptIDTillsVidare),
		WorktimeExtentConceptID: strPtr(types.ConceptIDHeltid),
		Title:                   "Bilmekaniker till verkstad",
		DescriptionText:         strings.Repeat("Vi söker en erfaren bilmekaniker. ", 10),
		ContactFirstName:        "Anna",
		ContactLastName:         "Lindqvist",
		ContactEmail:            "anna@example.se",
		LastApplicationDate:     &date,
		TotalOpenings:           1,
		EmployerWebsite:         "https://verkstad.example.se",
		WorkplaceAddress: types.WorkplaceAddress{
			Street:     "Verkstadsgatan 1",
			PostalCode: "17141",
			City:       "Solna",
		},
		ApplicationURL: "https://jobb.example.se/apply/1",
		SyncState:      types.SyncValid,
	}
}

func newTestPublisher(store *fakeStore, remote *fakeRemote) *Publisher {
	validator := &compliance.Validator{Now: func() time.Time { return fixedNow }}
	return New(store, remote, &fakeResolver{}, validator, zap.NewNop())
}

func accepted(id string) *platsbanken.Outcome {
	return &platsbanken.Outcome{Kind: platsbanken.Accepted, StatusCode: 201, RemoteAdID: id}
}

func rejected() *platsbanken.Outcome {
	return &platsbanken.Outcome{
		Kind:       platsbanken.Rejected,
		StatusCode: 422,
		FieldErrors: []types.FieldError{
			{Field: "occupation", Message: "unknown concept"},
		},
	}
}

func TestPublishJob_FirstPublishSucceeds(t *testing.T) {
	store := &fakeStore{job: validTestJob()}
	remote := &fakeRemote{outcome: accepted("abc123")}
	p := newTestPublisher(store, remote)

	result, err := p.PublishJob(context.Background(), store.job.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusPublished, result.Status)
	assert.Equal(t, "abc123", result.RemoteAdID)
	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, 0, remote.updateCalls)
	assert.Equal(t, "abc123", store.finishedWith)
	require.NotNil(t, store.job.RemoteAdID)
	assert.Equal(t, "abc123", *store.job.RemoteAdID)
	assert.Equal(t, types.SyncPublished, store.job.SyncState)
}

func TestPublishJob_PublishedJobIsUpdated(t *testing.T) {
	job := validTestJob()
	job.RemoteAdID = strPtr("abc123")
	job.SyncState = types.SyncPublished
	store := &fakeStore{job: job}
	remote := &fakeRemote{outcome: accepted("abc123")}
	p := newTestPublisher(store, remote)

	result, err := p.PublishJob(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusPublished, result.Status)
	assert.Equal(t, 0, remote.createCalls)
	assert.Equal(t, 1, remote.updateCalls)
	assert.Equal(t, "abc123", remote.updatedAdID)
}

func TestPublishJob_FailedUpdateKeepsRemoteAdID(t *testing.T) {
	job := validTestJob()
	job.RemoteAdID = strPtr("abc123")
	job.SyncState = types.SyncPublished
	store := &fakeStore{job: job}
	remote := &fakeRemote{outcome: rejected()}
	p := newTestPublisher(store, remote)

	result, err := p.PublishJob(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, types.SyncError, store.job.SyncState)
	require.NotNil(t, store.job.RemoteAdID)
	assert.Equal(t, "abc123", *store.job.RemoteAdID)
	require.NotNil(t, store.failedWith)
	assert.Equal(t, types.RemoteErrorRejected, store.failedWith.Kind)
	require.Len(t, store.failedWith.FieldErrors, 1)
	assert.Equal(t, "occupation", store.failedWith.FieldErrors[0].Field)
}

func TestPublishJob_RejectedCreateLeavesRemoteAdIDNil(t *testing.T) {
	store := &fakeStore{job: validTestJob()}
	remote := &fakeRemote{outcome: rejected()}
	p := newTestPublisher(store, remote)

	result, err := p.PublishJob(context.Background(), store.job.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, types.SyncError, store.job.SyncState)
	assert.Nil(t, store.job.RemoteAdID)
}

func TestPublishJob_BlockedLocallyNeverCallsRemote(t *testing.T) {
	job := validTestJob()
	job.OccupationConceptID = nil
	store := &fakeStore{job: job}
	remote := &fakeRemote{outcome: accepted("abc123")}
	p := newTestPublisher(store, remote)

	result, err := p.PublishJob(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusBlocked, result.Status)
	assert.True(t, result.Violations.HasField("occupation"))
	assert.Equal(t, 0, remote.createCalls)
	assert.Equal(t, 0, remote.updateCalls)
	// A previously valid job drops back to resolved.
	assert.Equal(t, types.SyncResolved, store.job.SyncState)
}

func TestPublishJob_SchemaGuardBlocksAndDemotesLikeRuleViolation(t *testing.T) {
	// An empty application URL passes the rule set but fails the contract
	// schema, so this exercises the second local-block path.
	job := validTestJob()
	job.ApplicationURL = ""
	store := &fakeStore{job: job}
	remote := &fakeRemote{outcome: accepted("abc123")}
	p := newTestPublisher(store, remote)

	result, err := p.PublishJob(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusBlocked, result.Status)
	assert.NotEmpty(t, result.Violations)
	assert.Equal(t, 0, remote.createCalls)
	assert.Equal(t, 0, remote.updateCalls)
	// Both block paths treat state the same way.
	assert.Equal(t, types.SyncResolved, store.job.SyncState)
}

func TestPublishJob_InFlightIsRejected(t *testing.T) {
	store := &fakeStore{job: validTestJob(), beginDenied: true}
	remote := &fakeRemote{outcome: accepted("abc123")}
	p := newTestPublisher(store, remote)

	_, err := p.PublishJob(context.Background(), store.job.ID)

	var notPublishable *ErrNotPublishable
	require.ErrorAs(t, err, &notPublishable)
	assert.Equal(t, 0, remote.createCalls)
}

func TestPublishJob_AutoSetDurationIsPersistedBeforeRemoteCall(t *testing.T) {
	job := validTestJob()
	job.DurationConceptID = strPtr(types.ConceptIDUpp6Manader)
	store := &fakeStore{job: job}
	remote := &fakeRemote{outcome: accepted("abc123")}
	p := newTestPublisher(store, remote)

	_, err := p.PublishJob(context.Background(), job.ID)
	require.NoError(t, err)

	require.NotNil(t, store.job.DurationConceptID)
	assert.Equal(t, types.ConceptIDTillsVidare, *store.job.DurationConceptID)
	assert.GreaterOrEqual(t, store.resolutionSaves, 1)
}

func TestPublishJob_NotFound(t *testing.T) {
	store := &fakeStore{}
	p := newTestPublisher(store, &fakeRemote{outcome: accepted("x")})

	_, err := p.PublishJob(context.Background(), uuid.New())

	var notFound *ErrJobNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestResolveJob_MovesToResolved(t *testing.T) {
	job := validTestJob()
	job.OccupationConceptID = nil
	job.MunicipalityConceptID = nil
	job.SyncState = types.SyncUnresolved
	store := &fakeStore{job: job}

	validator := &compliance.Validator{Now: func() time.Time { return fixedNow }}
	resolver := &fakeResolver{occupation: "occ-id", municipality: "mun-id"}
	p := New(store, &fakeRemote{}, resolver, validator, zap.NewNop())

	_, err := p.ResolveJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SyncResolved, store.job.SyncState)
}

func TestResolveJob_StaysUnresolvedWhenMandatoryMissing(t *testing.T) {
	job := validTestJob()
	job.OccupationConceptID = nil
	job.SyncState = types.SyncUnresolved
	store := &fakeStore{job: job}

	validator := &compliance.Validator{Now: func() time.Time { return fixedNow }}
	p := New(store, &fakeRemote{}, &fakeResolver{}, validator, zap.NewNop())

	_, err := p.ResolveJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SyncUnresolved, store.job.SyncState)
}

func TestValidateJob_PromotesToValid(t *testing.T) {
	job := validTestJob()
	job.SyncState = types.SyncResolved
	store := &fakeStore{job: job}
	p := newTestPublisher(store, &fakeRemote{})

	violations, err := p.ValidateJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Equal(t, types.SyncValid, store.job.SyncState)
}

func TestValidateJob_DemotesValidOnViolations(t *testing.T) {
	job := validTestJob()
	job.Title = ""
	store := &fakeStore{job: job}
	p := newTestPublisher(store, &fakeRemote{})

	violations, err := p.ValidateJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
	assert.Equal(t, types.SyncResolved, store.job.SyncState)
}

func TestValidateJob_PublishedJobKeepsState(t *testing.T) {
	job := validTestJob()
	job.SyncState = types.SyncPublished
	job.RemoteAdID = strPtr("abc123")
	job.Title = ""
	store := &fakeStore{job: job}
	p := newTestPublisher(store, &fakeRemote{})

	violations, err := p.ValidateJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
	assert.Equal(t, types.SyncPublished, store.job.SyncState)
}
