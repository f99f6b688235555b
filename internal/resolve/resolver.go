// Package resolve maps free-text job attributes to canonical taxonomy
// concept identifiers using per-type matching strategies.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// Field names reported in resolution outcomes.
const (
	FieldOccupation     = "occupation"
	FieldMunicipality   = "municipality"
	FieldEmploymentType = "employment_type"
	FieldDuration       = "duration"
	FieldWorktimeExtent = "worktime_extent"
)

// ConceptCatalog is the taxonomy read surface the resolver consults.
type ConceptCatalog interface {
	ListConceptsByType(ctx context.Context, typ types.ConceptType, version int) ([]types.Concept, error)
}

// Outcome reports which fields a resolution pass filled and which stayed
// unresolved. Unresolved fields are warnings, not failures: validation
// decides later whether the absence is fatal.
type Outcome struct {
	Resolved []string `json:"resolved"`
	Warnings []string `json:"warnings"`
}

// Resolver fills unresolved concept fields on a job ad. Resolution is a
// pure function of the free text and the taxonomy snapshot: an already
// resolved field is never re-derived, and re-running on unchanged inputs
// yields the same identifiers.
type Resolver struct {
	catalog ConceptCatalog
	version int
	logger  *zap.Logger
}

// New creates a resolver against the given taxonomy version.
func New(catalog ConceptCatalog, version int, logger *zap.Logger) *Resolver {
	return &Resolver{catalog: catalog, version: version, logger: logger}
}

// Resolve fills each unresolved concept field using its type-specific
// strategy and mutates the job in place.
func (r *Resolver) Resolve(ctx context.Context, job *types.JobAd) (*Outcome, error) {
	out := &Outcome{}

	if job.OccupationConceptID == nil {
		if err := r.resolveOccupation(ctx, job, out); err != nil {
			return nil, err
		}
	}
	if job.MunicipalityConceptID == nil {
		if err := r.resolveMunicipality(ctx, job, out); err != nil {
			return nil, err
		}
	}
	if job.EmploymentTypeConceptID == nil {
		if err := r.resolveEmploymentType(ctx, job, out); err != nil {
			return nil, err
		}
	}
	if job.WorktimeExtentConceptID == nil {
		r.resolveWorktimeExtent(job, out)
	}
	if job.DurationConceptID == nil {
		r.resolveDuration(job, out)
	}

	r.logger.Debug("resolution pass finished",
		zap.String("job_id", job.ID.String()),
		zap.Strings("resolved", out.Resolved),
		zap.Strings("warnings", out.Warnings))
	return out, nil
}

// resolveOccupation matches the category text exactly first, then by
// substring in either direction. There is no safe fallback occupation, so
// no match leaves the field unresolved.
func (r *Resolver) resolveOccupation(ctx context.Context, job *types.JobAd, out *Outcome) error {
	query := normalize(job.CategoryText)
	if query == "" {
		out.Warnings = append(out.Warnings, "occupation: no category text to resolve from")
		return nil
	}

	concepts, err := r.catalog.ListConceptsByType(ctx, types.ConceptOccupation, r.version)
	if err != nil {
		return fmt.Errorf("failed to list occupation concepts: %w", err)
	}

	for _, c := range concepts {
		if normalize(c.Label) == query {
			job.OccupationConceptID = &c.ConceptID
			out.Resolved = append(out.Resolved, FieldOccupation)
			return nil
		}
	}

	// Substring fallback, first match in label order wins.
	for _, c := range concepts {
		label := normalize(c.Label)
		if label == "" {
			continue
		}
		if strings.Contains(label, query) || strings.Contains(query, label) {
			job.OccupationConceptID = &c.ConceptID
			out.Resolved = append(out.Resolved, FieldOccupation)
			return nil
		}
	}

	out.Warnings = append(out.Warnings,
		fmt.Sprintf("occupation: no concept matches %q", job.CategoryText))
	return nil
}

// resolveMunicipality matches the city text exactly only. Place names are
// never guessed.
func (r *Resolver) resolveMunicipality(ctx context.Context, job *types.JobAd, out *Outcome) error {
	query := normalize(job.CityText)
	if query == "" {
		out.Warnings = append(out.Warnings, "municipality: no city text to resolve from")
		return nil
	}

	concepts, err := r.catalog.ListConceptsByType(ctx, types.ConceptMunicipality, r.version)
	if err != nil {
		return fmt.Errorf("failed to list municipality concepts: %w", err)
	}

	for _, c := range concepts {
		if normalize(c.Label) == query {
			job.MunicipalityConceptID = &c.ConceptID
			out.Resolved = append(out.Resolved, FieldMunicipality)
			return nil
		}
	}

	out.Warnings = append(out.Warnings,
		fmt.Sprintf("municipality: no concept labeled %q", job.CityText))
	return nil
}

// resolveEmploymentType runs the keyword table against the free text and
// looks up a concept by the winning group's label fragment.
func (r *Resolver) resolveEmploymentType(ctx context.Context, job *types.JobAd, out *Outcome) error {
	text := normalize(job.EmploymentTypeText)
	if text == "" {
		out.Warnings = append(out.Warnings, "employment_type: no free text to resolve from")
		return nil
	}

	fragment := ""
	for _, group := range employmentTypeGroups {
		if containsAny(text, group.Keywords) {
			fragment = group.LabelFragment
			break
		}
	}
	if fragment == "" {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("employment_type: no keyword group matches %q", job.EmploymentTypeText))
		return nil
	}

	concepts, err := r.catalog.ListConceptsByType(ctx, types.ConceptEmploymentType, r.version)
	if err != nil {
		return fmt.Errorf("failed to list employment type concepts: %w", err)
	}

	for _, c := range concepts {
		if strings.Contains(normalize(c.Label), fragment) {
			job.EmploymentTypeConceptID = &c.ConceptID
			out.Resolved = append(out.Resolved, FieldEmploymentType)
			return nil
		}
	}

	out.Warnings = append(out.Warnings,
		fmt.Sprintf("employment_type: no concept label contains %q", fragment))
	return nil
}

// resolveWorktimeExtent always resolves: part-time when the free text says
// so, full-time otherwise.
func (r *Resolver) resolveWorktimeExtent(job *types.JobAd, out *Outcome) {
	id := types.ConceptIDHeltid
	if containsAny(normalize(job.EmploymentTypeText), partTimeKeywords) {
		id = types.ConceptIDDeltid
	}
	job.WorktimeExtentConceptID = &id
	out.Resolved = append(out.Resolved, FieldWorktimeExtent)
}

// resolveDuration always resolves: a fixed-term default for the temporary
// employment family, the indefinite concept otherwise.
func (r *Resolver) resolveDuration(job *types.JobAd, out *Outcome) {
	id := types.ConceptIDTillsVidare
	if containsAny(normalize(job.EmploymentTypeText), temporaryFamilyKeywords) {
		id = types.ConceptIDUpp6Manader
	}
	job.DurationConceptID = &id
	out.Resolved = append(out.Resolved, FieldDuration)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
