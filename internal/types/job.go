package types

import (
	"time"

	"github.com/google/uuid"
)

// SyncState is the durable lifecycle status of a job ad's relationship
// with the remote job exchange.
type SyncState string

// Sync states. A job with a non-nil RemoteAdID has been accepted by the
// remote system at least once; SyncError after that point means only that
// the latest update attempt failed.
const (
	SyncUnresolved SyncState = "unresolved"
	SyncResolved   SyncState = "resolved"
	SyncValid      SyncState = "valid"
	SyncPublishing SyncState = "publishing"
	SyncPublished  SyncState = "published"
	SyncUpdating   SyncState = "updating"
	SyncError      SyncState = "sync_error"
)

// WorkplaceAddress is the postal address of the advertised workplace.
type WorkplaceAddress struct {
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

// JobAd is the publication-relevant subset of a job posting: free-text
// source fields, concept fields filled by the resolver, and the persisted
// sync state. Concept fields stay nil until resolved; once set they are
// never re-derived from free text unless explicitly reset.
type JobAd struct {
	ID uuid.UUID `json:"id"`

	// Free-text source fields authored in the platform.
	CategoryText       string `json:"category_text"`
	CityText           string `json:"city_text"`
	EmploymentTypeText string `json:"employment_type_text"`

	// Resolved taxonomy concept identifiers.
	OccupationConceptID     *string `json:"occupation_concept_id,omitempty"`
	MunicipalityConceptID   *string `json:"municipality_concept_id,omitempty"`
	EmploymentTypeConceptID *string `json:"employment_type_concept_id,omitempty"`
	DurationConceptID       *string `json:"duration_concept_id,omitempty"`
	WorktimeExtentConceptID *string `json:"worktime_extent_concept_id,omitempty"`

	// Publication payload fields.
	Title               string           `json:"title"`
	DescriptionText     string           `json:"description_text"`
	ContactFirstName    string           `json:"contact_first_name"`
	ContactLastName     string           `json:"contact_last_name"`
	ContactEmail        string           `json:"contact_email"`
	ContactPhone        string           `json:"contact_phone"`
	LastApplicationDate *time.Time       `json:"last_application_date,omitempty"`
	TotalOpenings       int              `json:"total_openings"`
	EmployerWebsite     string           `json:"employer_website"`
	WorkplaceAddress    WorkplaceAddress `json:"workplace_address"`
	ApplicationURL      string           `json:"application_url"`

	// Sync tracking.
	SyncState    SyncState    `json:"sync_state"`
	RemoteAdID   *string      `json:"remote_ad_id,omitempty"`
	LastError    *RemoteError `json:"last_error,omitempty"`
	LastSyncedAt *time.Time   `json:"last_synced_at,omitempty"`
}

// FieldError is one field-level error reported by the remote system.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RemoteError kinds stored in a job's last_error snapshot.
const (
	RemoteErrorRejected  = "rejected"
	RemoteErrorTransport = "transport_failure"
)

// RemoteError is the normalized snapshot of a failed remote call,
// persisted verbatim so the admin surface can render it.
type RemoteError struct {
	Kind        string       `json:"kind"`
	StatusCode  int          `json:"status_code,omitempty"`
	Message     string       `json:"message,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
}
