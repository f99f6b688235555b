package compliance

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testValidator() *Validator {
	return &Validator{Now: func() time.Time { return testNow }}
}

func strPtr(s string) *string { return &s }

func datePtr(t time.Time) *time.Time { return &t }

// validJob returns a job ad that passes every rule. Tests break one field
// at a time.
func validJob() *types.JobAd {
	return &types.JobAd{
		OccupationConceptID:     strPtr("occ-id"),
		MunicipalityConceptID:   strPtr("mun-id"),
		EmploymentTypeConceptID: strPtr("emp-id"),
		DurationConceptID:       strPtr(types.ConceptIDTillsVidare),
		WorktimeExtentConceptID: strPtr(types.ConceptIDHeltid),
		Title:                   "Bilmekaniker till verkstad i Solna",
		DescriptionText:         strings.Repeat("Vi söker en erfaren bilmekaniker. ", 10),
		ContactFirstName:        "Anna",
		ContactLastName:         "Lindqvist",
		ContactEmail:            "anna@example.se",
		ContactPhone:            "",
		LastApplicationDate:     datePtr(testNow.AddDate(0, 0, 30)),
		TotalOpenings:           2,
		EmployerWebsite:         "https://verkstad.example.se",
		WorkplaceAddress: types.WorkplaceAddress{
			Street:     "Verkstadsgatan 1",
			PostalCode: "17141",
			City:       "Solna",
		},
		ApplicationURL: "https://jobb.example.se/apply/123",
	}
}

func TestValidate_ValidJobHasNoViolations(t *testing.T) {
	violations := testValidator().Validate(validJob())
	assert.Empty(t, violations)
}

func TestValidate_AutoSetDurationRewrites(t *testing.T) {
	job := validJob()
	job.EmploymentTypeConceptID = strPtr(types.ConceptIDVanligAnstallning)
	job.DurationConceptID = strPtr(types.ConceptIDUpp6Manader)

	violations := testValidator().Validate(job)

	require.NotNil(t, job.DurationConceptID)
	assert.Equal(t, types.ConceptIDTillsVidare, *job.DurationConceptID)
	assert.Empty(t, violations)
}

func TestValidate_AutoSetDurationFillsNil(t *testing.T) {
	job := validJob()
	job.EmploymentTypeConceptID = strPtr(types.ConceptIDVanligAnstallning)
	job.DurationConceptID = nil

	violations := testValidator().Validate(job)

	require.NotNil(t, job.DurationConceptID)
	assert.Equal(t, types.ConceptIDTillsVidare, *job.DurationConceptID)
	assert.Empty(t, violations)
}

func TestValidate_RequiresDurationSet(t *testing.T) {
	for _, employmentType := range []string{
		types.ConceptIDSommarjobb,
		types.ConceptIDBehovsanstallning,
		types.ConceptIDExtrajobb,
		types.ConceptIDSasongsarbete,
	} {
		job := validJob()
		job.EmploymentTypeConceptID = strPtr(employmentType)
		job.DurationConceptID = nil
		// Behovsanställning also forbids a worktime extent; clear it so
		// the only expected violation is the missing duration.
		if employmentType == types.ConceptIDBehovsanstallning {
			job.WorktimeExtentConceptID = nil
		}

		violations := testValidator().Validate(job)

		durationViolations := 0
		for _, v := range violations {
			if v.Field == "duration" {
				durationViolations++
				assert.Equal(t, RuleDurationRequired, v.Rule)
			}
		}
		assert.Equal(t, 1, durationViolations, "employment type %s", employmentType)
	}
}

func TestValidate_ForbidsWorktimeExtent(t *testing.T) {
	job := validJob()
	job.EmploymentTypeConceptID = strPtr(types.ConceptIDBehovsanstallning)
	job.DurationConceptID = strPtr(types.ConceptIDUpp6Manader)
	job.WorktimeExtentConceptID = strPtr(types.ConceptIDHeltid)

	violations := testValidator().Validate(job)

	require.True(t, violations.HasField("worktime_extent"))
	for _, v := range violations {
		if v.Field == "worktime_extent" {
			assert.Equal(t, RuleWorktimeForbidden, v.Rule)
		}
	}
}

func TestValidate_ForbiddenCombination(t *testing.T) {
	job := validJob()
	job.EmploymentTypeConceptID = strPtr(types.ConceptIDSommarjobb)
	job.DurationConceptID = strPtr(types.ConceptIDTillsVidare)

	violations := testValidator().Validate(job)

	// The pair is reported on both fields even though each field alone
	// satisfies its own rules.
	assert.True(t, violations.HasField("employment_type"))
	assert.True(t, violations.HasField("duration"))
	pairViolations := 0
	for _, v := range violations {
		if v.Rule == RuleForbiddenPair {
			pairViolations++
		}
	}
	assert.Equal(t, 2, pairViolations)
}

func TestValidate_ForbiddenCombinationSkippedWhenDurationMissing(t *testing.T) {
	job := validJob()
	job.EmploymentTypeConceptID = strPtr(types.ConceptIDSommarjobb)
	job.DurationConceptID = nil

	violations := testValidator().Validate(job)

	assert.True(t, violations.HasField("duration"))
	for _, v := range violations {
		assert.NotEqual(t, RuleForbiddenPair, v.Rule)
	}
}

func TestValidate_ForbiddenEmploymentType(t *testing.T) {
	job := validJob()
	job.EmploymentTypeConceptID = strPtr(types.ConceptIDArbeteUtomlands)

	violations := testValidator().Validate(job)

	require.True(t, violations.HasField("employment_type"))
	found := false
	for _, v := range violations {
		if v.Rule == RuleForbiddenValue {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate_ApplicationDateWindow(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		valid bool
	}{
		{"same day fails", 0, false},
		{"one day passes", 1, true},
		{"180 days passes", 180, true},
		{"181 days fails", 181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			job.LastApplicationDate = datePtr(testNow.AddDate(0, 0, tt.days))

			violations := testValidator().Validate(job)

			if tt.valid {
				assert.False(t, violations.HasField("last_application_date"))
			} else {
				assert.True(t, violations.HasField("last_application_date"))
			}
		})
	}
}

func TestValidate_ApplicationDateRequired(t *testing.T) {
	job := validJob()
	job.LastApplicationDate = nil

	violations := testValidator().Validate(job)
	require.True(t, violations.HasField("last_application_date"))
}

func TestValidate_MissingConceptsAreReported(t *testing.T) {
	job := validJob()
	job.OccupationConceptID = nil
	job.MunicipalityConceptID = nil
	job.EmploymentTypeConceptID = nil

	violations := testValidator().Validate(job)

	assert.True(t, violations.HasField("occupation"))
	assert.True(t, violations.HasField("municipality"))
	assert.True(t, violations.HasField("employment_type"))
}

func TestValidate_AllViolationsInOnePass(t *testing.T) {
	job := validJob()
	job.Title = ""
	job.OccupationConceptID = nil
	job.WorkplaceAddress.PostalCode = "123"
	job.LastApplicationDate = nil

	violations := testValidator().Validate(job)

	assert.True(t, violations.HasField("title"))
	assert.True(t, violations.HasField("occupation"))
	assert.True(t, violations.HasField("workplace_address.postal_code"))
	assert.True(t, violations.HasField("last_application_date"))
}
