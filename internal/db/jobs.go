package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// -----------------------------------------------------------------------------
// Job Ad Methods
// -----------------------------------------------------------------------------

// GetJobAd retrieves the publication-relevant subset of a job ad.
// Returns nil without error when the job does not exist.
func (db *DB) GetJobAd(ctx context.Context, id uuid.UUID) (*types.JobAd, error) {
	var j types.JobAd
	var lastErrorJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, category_text, city_text, employment_type_text,
		        occupation_concept_id, municipality_concept_id,
		        employment_type_concept_id, duration_concept_id,
		        worktime_extent_concept_id,
		        title, description_text, contact_first_name, contact_last_name,
		        contact_email, contact_phone, last_application_date,
		        total_openings, employer_website,
		        workplace_street, workplace_postal_code, workplace_city,
		        application_url,
		        sync_state, remote_ad_id, last_error, last_synced_at
		 FROM job_ads WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.CategoryText, &j.CityText, &j.EmploymentTypeText,
		&j.OccupationConceptID, &j.MunicipalityConceptID,
		&j.EmploymentTypeConceptID, &j.DurationConceptID,
		&j.WorktimeExtentConceptID,
		&j.Title, &j.DescriptionText, &j.ContactFirstName, &j.ContactLastName,
		&j.ContactEmail, &j.ContactPhone, &j.LastApplicationDate,
		&j.TotalOpenings, &j.EmployerWebsite,
		&j.WorkplaceAddress.Street, &j.WorkplaceAddress.PostalCode, &j.WorkplaceAddress.City,
		&j.ApplicationURL,
		&j.SyncState, &j.RemoteAdID, &lastErrorJSON, &j.LastSyncedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job ad: %w", err)
	}

	// Parse JSONB field. A snapshot that no longer parses must surface,
	// not read back as "no error".
	if lastErrorJSON != nil {
		if err := json.Unmarshal(lastErrorJSON, &j.LastError); err != nil {
			return nil, fmt.Errorf("failed to parse last_error for job %s: %w", id, err)
		}
	}

	return &j, nil
}

// SaveResolution persists the resolved concept fields and the given sync
// state. It never touches remote_ad_id or last_error.
func (db *DB) SaveResolution(ctx context.Context, job *types.JobAd, state types.SyncState) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_ads
		 SET occupation_concept_id = $2,
		     municipality_concept_id = $3,
		     employment_type_concept_id = $4,
		     duration_concept_id = $5,
		     worktime_extent_concept_id = $6,
		     sync_state = $7,
		     updated_at = NOW()
		 WHERE id = $1`,
		job.ID, job.OccupationConceptID, job.MunicipalityConceptID,
		job.EmploymentTypeConceptID, job.DurationConceptID,
		job.WorktimeExtentConceptID, state,
	)
	if err != nil {
		return fmt.Errorf("failed to save resolution for job %s: %w", job.ID, err)
	}
	job.SyncState = state
	return nil
}

// SetSyncState updates only the sync state of a job ad.
func (db *DB) SetSyncState(ctx context.Context, id uuid.UUID, state types.SyncState) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_ads SET sync_state = $2, updated_at = NOW() WHERE id = $1`,
		id, state,
	)
	if err != nil {
		return fmt.Errorf("failed to set sync state for job %s: %w", id, err)
	}
	return nil
}

// BeginPublish atomically claims a job for a remote call: it moves the job
// to publishing (no remote ad yet) or updating (remote ad exists) only if
// the current state allows starting one. The compare-and-set rejects a
// second publish attempt while one is already in flight. Returns the
// claimed state, or "" when the job was not in a publishable state.
func (db *DB) BeginPublish(ctx context.Context, id uuid.UUID) (types.SyncState, error) {
	var state types.SyncState
	err := db.pool.QueryRow(ctx,
		`UPDATE job_ads
		 SET sync_state = CASE WHEN remote_ad_id IS NULL
		                       THEN 'publishing'::text ELSE 'updating'::text END,
		     updated_at = NOW()
		 WHERE id = $1 AND sync_state IN ('valid', 'published', 'sync_error')
		 RETURNING sync_state`,
		id,
	).Scan(&state)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to claim job %s for publishing: %w", id, err)
	}
	return state, nil
}

// FinishPublish records a successful remote call. remote_ad_id is written
// at most once: a later update can never clear or replace it.
func (db *DB) FinishPublish(ctx context.Context, id uuid.UUID, remoteAdID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE job_ads
		 SET sync_state = 'published',
		     remote_ad_id = COALESCE(remote_ad_id, $2),
		     last_error = NULL,
		     last_synced_at = NOW(),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, remoteAdID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish publish for job %s: %w", id, err)
	}
	return nil
}

// FailPublish records a failed remote call: the normalized error snapshot
// goes into last_error and the state becomes sync_error. remote_ad_id is
// left unchanged, so a failed update never invalidates a prior publish.
func (db *DB) FailPublish(ctx context.Context, id uuid.UUID, remoteErr *types.RemoteError) error {
	errJSON, err := json.Marshal(remoteErr)
	if err != nil {
		return fmt.Errorf("failed to marshal remote error for job %s: %w", id, err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE job_ads
		 SET sync_state = 'sync_error',
		     last_error = $2,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, errJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to record publish failure for job %s: %w", id, err)
	}
	return nil
}
