// Package publish drives a job ad through resolution, validation and the
// remote publish/update call, tracking its durable sync state.
package publish

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rekrytera/jobad-publisher/internal/compliance"
	"github.com/rekrytera/jobad-publisher/internal/platsbanken"
	"github.com/rekrytera/jobad-publisher/internal/resolve"
	"github.com/rekrytera/jobad-publisher/internal/types"
)

// JobStore is the persistence surface the publisher drives.
type JobStore interface {
	GetJobAd(ctx context.Context, id uuid.UUID) (*types.JobAd, error)
	SaveResolution(ctx context.Context, job *types.JobAd, state types.SyncState) error
	SetSyncState(ctx context.Context, id uuid.UUID, state types.SyncState) error
	BeginPublish(ctx context.Context, id uuid.UUID) (types.SyncState, error)
	FinishPublish(ctx context.Context, id uuid.UUID, remoteAdID string) error
	FailPublish(ctx context.Context, id uuid.UUID, remoteErr *types.RemoteError) error
}

// RemoteAPI is the publishing side of the remote job exchange.
type RemoteAPI interface {
	CreateAd(ctx context.Context, payload *platsbanken.Payload) *platsbanken.Outcome
	UpdateAd(ctx context.Context, remoteAdID string, payload *platsbanken.Payload) *platsbanken.Outcome
}

// Resolver fills unresolved concept fields on a job ad.
type Resolver interface {
	Resolve(ctx context.Context, job *types.JobAd) (*resolve.Outcome, error)
}

// ErrJobNotFound indicates the job ad does not exist.
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job ad not found: %s", e.JobID)
}

// ErrNotPublishable indicates the job was not in a state that permits
// starting a remote call, including a publish already in flight.
type ErrNotPublishable struct {
	JobID uuid.UUID
	State types.SyncState
}

func (e *ErrNotPublishable) Error() string {
	return fmt.Sprintf("job %s cannot be published from state %q", e.JobID, e.State)
}

// Status summarizes one publish attempt.
type Status string

// Publish attempt statuses.
const (
	// StatusBlocked means local validation failed; no remote call was made.
	StatusBlocked Status = "blocked"
	// StatusPublished means the remote system accepted the ad.
	StatusPublished Status = "published"
	// StatusFailed means the remote call was made and failed; the job is
	// in sync_error with the normalized outcome persisted.
	StatusFailed Status = "failed"
)

// Result is the outcome of one publish attempt.
type Result struct {
	Status     Status               `json:"status"`
	Violations types.Violations     `json:"violations,omitempty"`
	RemoteAdID string               `json:"remote_ad_id,omitempty"`
	Outcome    *platsbanken.Outcome `json:"-"`
}

// Publisher orchestrates the pipeline. Phases within one job are strictly
// sequential; different jobs need no coordination.
type Publisher struct {
	store     JobStore
	remote    RemoteAPI
	resolver  Resolver
	validator *compliance.Validator
	logger    *zap.Logger
}

// New creates a publisher.
func New(store JobStore, remote RemoteAPI, resolver Resolver, validator *compliance.Validator, logger *zap.Logger) *Publisher {
	return &Publisher{
		store:     store,
		remote:    remote,
		resolver:  resolver,
		validator: validator,
		logger:    logger,
	}
}

// ResolveJob fills unresolved concept fields and persists them. The job
// moves to resolved once no mandatory concept field is missing; the
// remote ad identifier is never touched.
func (p *Publisher) ResolveJob(ctx context.Context, id uuid.UUID) (*resolve.Outcome, error) {
	job, err := p.store.GetJobAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: id}
	}

	outcome, err := p.resolver.Resolve(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve job %s: %w", id, err)
	}

	state := types.SyncResolved
	if !mandatoryResolved(job) {
		state = types.SyncUnresolved
	}
	if err := p.store.SaveResolution(ctx, job, state); err != nil {
		return nil, err
	}

	p.logger.Info("job resolved",
		zap.String("job_id", id.String()),
		zap.String("sync_state", string(state)),
		zap.Int("warnings", len(outcome.Warnings)))
	return outcome, nil
}

// ValidateJob runs the compliance rule set and persists the state change.
// The auto-set duration mutation is persisted so a later publish reads the
// rewritten value. Published jobs keep their state either way.
func (p *Publisher) ValidateJob(ctx context.Context, id uuid.UUID) (types.Violations, error) {
	job, err := p.store.GetJobAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: id}
	}

	violations, err := p.runValidation(ctx, job)
	if err != nil {
		return nil, err
	}

	switch job.SyncState {
	case types.SyncUnresolved, types.SyncResolved, types.SyncValid:
		next := types.SyncValid
		if len(violations) > 0 {
			next = types.SyncResolved
			if !mandatoryResolved(job) {
				next = types.SyncUnresolved
			}
		}
		if next != job.SyncState {
			if err := p.store.SetSyncState(ctx, id, next); err != nil {
				return nil, err
			}
			job.SyncState = next
		}
	}
	return violations, nil
}

// PublishJob validates, then creates or updates the remote ad depending on
// whether one exists. Validation is local and free, so it runs before
// every remote call; a blocked result never reaches the network.
func (p *Publisher) PublishJob(ctx context.Context, id uuid.UUID) (*Result, error) {
	job, err := p.store.GetJobAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: id}
	}

	violations, err := p.runValidation(ctx, job)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		// Blocked locally. A previously valid job drops back to resolved;
		// a published job keeps its state, only this attempt is refused.
		if job.SyncState == types.SyncValid {
			if err := p.store.SetSyncState(ctx, id, types.SyncResolved); err != nil {
				return nil, err
			}
		}
		p.logger.Info("publish blocked by local validation",
			zap.String("job_id", id.String()),
			zap.Int("violations", len(violations)))
		return &Result{Status: StatusBlocked, Violations: violations}, nil
	}

	payload, err := platsbanken.BuildPayload(job)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload for job %s: %w", id, err)
	}

	// Contract-shape guard: a malformed payload is a local bug and must
	// never corrupt the remote record.
	schemaViolations, err := platsbanken.CheckPayload(payload)
	if err != nil {
		return nil, err
	}
	if len(schemaViolations) > 0 {
		// Same local-block handling as a rule violation: a valid job
		// drops back to resolved, a published job keeps its state.
		if job.SyncState == types.SyncValid {
			if err := p.store.SetSyncState(ctx, id, types.SyncResolved); err != nil {
				return nil, err
			}
		}
		p.logger.Error("payload failed contract schema, not sent",
			zap.String("job_id", id.String()),
			zap.Int("violations", len(schemaViolations)))
		return &Result{Status: StatusBlocked, Violations: schemaViolations}, nil
	}

	if job.SyncState == types.SyncUnresolved || job.SyncState == types.SyncResolved {
		if err := p.store.SetSyncState(ctx, id, types.SyncValid); err != nil {
			return nil, err
		}
		job.SyncState = types.SyncValid
	}

	claimed, err := p.store.BeginPublish(ctx, id)
	if err != nil {
		return nil, err
	}
	if claimed == "" {
		return nil, &ErrNotPublishable{JobID: id, State: job.SyncState}
	}

	var outcome *platsbanken.Outcome
	if claimed == types.SyncUpdating && job.RemoteAdID != nil {
		outcome = p.remote.UpdateAd(ctx, *job.RemoteAdID, payload)
	} else {
		outcome = p.remote.CreateAd(ctx, payload)
	}

	if outcome.Kind == platsbanken.Accepted {
		if err := p.store.FinishPublish(ctx, id, outcome.RemoteAdID); err != nil {
			return nil, err
		}
		remoteAdID := outcome.RemoteAdID
		if job.RemoteAdID != nil {
			remoteAdID = *job.RemoteAdID
		}
		p.logger.Info("job published",
			zap.String("job_id", id.String()),
			zap.String("remote_ad_id", remoteAdID))
		return &Result{Status: StatusPublished, RemoteAdID: remoteAdID, Outcome: outcome}, nil
	}

	if err := p.store.FailPublish(ctx, id, outcome.RemoteError()); err != nil {
		return nil, err
	}
	p.logger.Warn("remote call failed",
		zap.String("job_id", id.String()),
		zap.String("kind", string(outcome.Kind)),
		zap.Int("status", outcome.StatusCode),
		zap.String("hint", outcome.Hint))
	return &Result{Status: StatusFailed, Outcome: outcome}, nil
}

// runValidation applies the rule set and persists the auto-set duration
// rewrite when it changed the stored value.
func (p *Publisher) runValidation(ctx context.Context, job *types.JobAd) (types.Violations, error) {
	var before string
	if job.DurationConceptID != nil {
		before = *job.DurationConceptID
	}

	violations := p.validator.Validate(job)

	var after string
	if job.DurationConceptID != nil {
		after = *job.DurationConceptID
	}
	if after != before {
		if err := p.store.SaveResolution(ctx, job, job.SyncState); err != nil {
			return nil, err
		}
	}
	return violations, nil
}

func mandatoryResolved(job *types.JobAd) bool {
	return job.OccupationConceptID != nil &&
		job.MunicipalityConceptID != nil &&
		job.EmploymentTypeConceptID != nil
}
