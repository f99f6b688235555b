package compliance

import (
	"fmt"
	"time"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// Application-date window in days, inclusive.
const (
	MinApplicationDays = 1
	MaxApplicationDays = 180
)

// Validator evaluates the full rule set over a resolved job ad. It is
// stateless apart from the clock, which tests override.
type Validator struct {
	Now func() time.Time
}

// New creates a validator running against the real clock.
func New() *Validator {
	return &Validator{Now: time.Now}
}

// Validate returns every violation found in one pass. The auto-set
// duration pre-pass is the only mutation performed; it runs before the
// duration rules so they see the rewritten value. No rule short-circuits
// another, except that the forbidden-combination check is skipped when one
// of its fields already carries a violation.
func (v *Validator) Validate(job *types.JobAd) types.Violations {
	v.applyAutoSetDuration(job)

	var violations types.Violations
	violations = append(violations, checkConceptPresence(job)...)
	violations = append(violations, checkFormat(job)...)
	violations = append(violations, v.checkApplicationDate(job)...)
	violations = append(violations, checkConditionalRules(job, violations)...)
	return violations
}

// applyAutoSetDuration rewrites the duration for employment types whose
// contract fixes it, regardless of any prior value.
func (v *Validator) applyAutoSetDuration(job *types.JobAd) {
	if job.EmploymentTypeConceptID == nil {
		return
	}
	for _, rule := range rulesFor(*job.EmploymentTypeConceptID) {
		if rule.Kind == AutoSetsDuration {
			duration := rule.Duration
			job.DurationConceptID = &duration
		}
	}
}

func checkConceptPresence(job *types.JobAd) types.Violations {
	var violations types.Violations
	if job.OccupationConceptID == nil || *job.OccupationConceptID == "" {
		violations = append(violations, types.Violation{
			Field:   "occupation",
			Rule:    RuleRequired,
			Message: "occupation could not be resolved to a taxonomy concept",
		})
	}
	if job.MunicipalityConceptID == nil || *job.MunicipalityConceptID == "" {
		violations = append(violations, types.Violation{
			Field:   "municipality",
			Rule:    RuleRequired,
			Message: "municipality could not be resolved to a taxonomy concept",
		})
	}
	if job.EmploymentTypeConceptID == nil || *job.EmploymentTypeConceptID == "" {
		violations = append(violations, types.Violation{
			Field:   "employment_type",
			Rule:    RuleRequired,
			Message: "employment type could not be resolved to a taxonomy concept",
		})
	}
	return violations
}

func (v *Validator) checkApplicationDate(job *types.JobAd) types.Violations {
	if job.LastApplicationDate == nil {
		return types.Violations{{
			Field:   "last_application_date",
			Rule:    RuleRequired,
			Message: "last application date is required",
		}}
	}

	days := daysUntil(v.Now(), *job.LastApplicationDate)
	if days < MinApplicationDays || days > MaxApplicationDays {
		return types.Violations{{
			Field: "last_application_date",
			Rule:  RuleApplicationDate,
			Message: fmt.Sprintf("last application date must be %d-%d days from today, got %d",
				MinApplicationDays, MaxApplicationDays, days),
		}}
	}
	return nil
}

// checkConditionalRules evaluates the table-driven employment-type rules.
// prior is the violation set collected so far, used only for the
// forbidden-combination skip.
func checkConditionalRules(job *types.JobAd, prior types.Violations) types.Violations {
	if job.EmploymentTypeConceptID == nil {
		return nil
	}

	var violations types.Violations
	for _, rule := range rulesFor(*job.EmploymentTypeConceptID) {
		switch rule.Kind {
		case RequiresDuration:
			if job.DurationConceptID == nil || *job.DurationConceptID == "" {
				violations = append(violations, types.Violation{
					Field:   "duration",
					Rule:    RuleDurationRequired,
					Message: "this employment type requires a duration",
				})
			}
		case ForbidsWorktimeExtent:
			if job.WorktimeExtentConceptID != nil && *job.WorktimeExtentConceptID != "" {
				violations = append(violations, types.Violation{
					Field:   "worktime_extent",
					Rule:    RuleWorktimeForbidden,
					Message: "this employment type does not allow a worktime extent",
				})
			}
		case ForbiddenCombination:
			// Skip when either field already failed another rule.
			if prior.HasField("employment_type") || prior.HasField("duration") || violations.HasField("duration") {
				continue
			}
			if job.DurationConceptID != nil && *job.DurationConceptID == rule.Duration {
				violations = append(violations,
					types.Violation{
						Field:   "employment_type",
						Rule:    RuleForbiddenPair,
						Message: "this employment type cannot be combined with the given duration",
					},
					types.Violation{
						Field:   "duration",
						Rule:    RuleForbiddenPair,
						Message: "this duration cannot be combined with the given employment type",
					})
			}
		case ForbiddenValue:
			violations = append(violations, types.Violation{
				Field:   "employment_type",
				Rule:    RuleForbiddenValue,
				Message: "this employment type is not accepted by the remote system",
			})
		case AutoSetsDuration:
			// Handled in the pre-pass.
		}
	}
	return violations
}

// daysUntil counts whole days from now to the target at day granularity.
func daysUntil(now, target time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(today) / (24 * time.Hour))
}
