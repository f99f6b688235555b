// Package compliance validates a resolved job ad against the remote job
// exchange's business rules, producing field-level violations.
package compliance

import "github.com/rekrytera/jobad-publisher/internal/types"

// Rule identifiers reported in violations.
const (
	RuleRequired            = "required"
	RuleTitleLength         = "title_length"
	RuleDescriptionLength   = "description_length"
	RulePostalCodeFormat    = "postal_code_format"
	RuleContactNameLength   = "contact_name_length"
	RuleContactReachability = "contact_reachability"
	RuleWebsiteLength       = "website_length"
	RuleOpeningsRange       = "openings_range"
	RuleApplicationDate     = "application_date_window"
	RuleDurationRequired    = "duration_required"
	RuleWorktimeForbidden   = "worktime_extent_forbidden"
	RuleForbiddenPair       = "forbidden_combination"
	RuleForbiddenValue      = "employment_type_forbidden"
	RuleScalarPayload       = "scalar_payload"
)

// RuleKind tags one conditional-rule variant.
type RuleKind int

// Conditional rule variants. Adding a rule means adding a table entry,
// never new control flow.
const (
	// AutoSetsDuration rewrites the duration to the given concept before
	// any other rule runs. This is the validator's only mutation.
	AutoSetsDuration RuleKind = iota
	// RequiresDuration fails when the duration concept is unset.
	RequiresDuration
	// ForbidsWorktimeExtent fails when a worktime extent is set at all.
	ForbidsWorktimeExtent
	// ForbiddenCombination fails the (employment type, duration) pair.
	ForbiddenCombination
	// ForbiddenValue fails the employment type unconditionally.
	ForbiddenValue
)

// ConditionalRule keys a rule variant on an employment-type concept.
// Duration is the rewrite target for AutoSetsDuration and the disallowed
// partner for ForbiddenCombination; other kinds ignore it.
type ConditionalRule struct {
	Kind           RuleKind
	EmploymentType string
	Duration       string
}

// conditionalRules mirrors the remote system's employment-type contract.
var conditionalRules = []ConditionalRule{
	{Kind: AutoSetsDuration, EmploymentType: types.ConceptIDVanligAnstallning, Duration: types.ConceptIDTillsVidare},

	{Kind: RequiresDuration, EmploymentType: types.ConceptIDSommarjobb},
	{Kind: RequiresDuration, EmploymentType: types.ConceptIDBehovsanstallning},
	{Kind: RequiresDuration, EmploymentType: types.ConceptIDExtrajobb},
	{Kind: RequiresDuration, EmploymentType: types.ConceptIDSasongsarbete},

	{Kind: ForbidsWorktimeExtent, EmploymentType: types.ConceptIDBehovsanstallning},

	{Kind: ForbiddenCombination, EmploymentType: types.ConceptIDSommarjobb, Duration: types.ConceptIDTillsVidare},
	{Kind: ForbiddenCombination, EmploymentType: types.ConceptIDExtrajobb, Duration: types.ConceptIDTillsVidare},

	{Kind: ForbiddenValue, EmploymentType: types.ConceptIDArbeteUtomlands},
}

// rulesFor returns the conditional rules keyed on the given employment
// type, in table order.
func rulesFor(employmentType string) []ConditionalRule {
	var matched []ConditionalRule
	for _, r := range conditionalRules {
		if r.EmploymentType == employmentType {
			matched = append(matched, r)
		}
	}
	return matched
}
