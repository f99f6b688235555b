package compliance

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

var validate = validator.New()

// formatFields carries the statically checkable payload fields. The
// description is the markup-stripped text, not the authored source.
type formatFields struct {
	Title            string `validate:"required,min=1,max=75"`
	Description      string `validate:"required,min=100,max=6500"`
	PostalCode       string `validate:"required,len=5,numeric"`
	ContactFirstName string `validate:"required,min=1,max=50"`
	ContactLastName  string `validate:"required,min=1,max=50"`
	ContactEmail     string `validate:"required_without=ContactPhone,omitempty,email"`
	ContactPhone     string `validate:"required_without=ContactEmail"`
	EmployerWebsite  string `validate:"required,min=11,max=200"`
	TotalOpenings    int    `validate:"min=1,max=499"`
}

// formatFieldInfo maps a struct field to its job-ad path, rule id and message.
var formatFieldInfo = map[string]struct {
	Path    string
	Rule    string
	Message string
}{
	"Title":            {"title", RuleTitleLength, "title must be 1-75 characters"},
	"Description":      {"description", RuleDescriptionLength, "description must be 100-6500 characters after markup is stripped"},
	"PostalCode":       {"workplace_address.postal_code", RulePostalCodeFormat, "postal code must be exactly 5 digits"},
	"ContactFirstName": {"contact_first_name", RuleContactNameLength, "contact first name must be 1-50 characters"},
	"ContactLastName":  {"contact_last_name", RuleContactNameLength, "contact last name must be 1-50 characters"},
	"ContactEmail":     {"contact_email", RuleContactReachability, "at least one of contact email or phone is required"},
	"ContactPhone":     {"contact_phone", RuleContactReachability, "at least one of contact email or phone is required"},
	"EmployerWebsite":  {"employer_website", RuleWebsiteLength, "employer website must be 11-200 characters"},
	"TotalOpenings":    {"total_openings", RuleOpeningsRange, "total openings must be between 1 and 499"},
}

// checkFormat runs the static per-field rules and returns every failure.
func checkFormat(job *types.JobAd) types.Violations {
	fields := formatFields{
		Title:            job.Title,
		Description:      StripMarkup(job.DescriptionText),
		PostalCode:       job.WorkplaceAddress.PostalCode,
		ContactFirstName: job.ContactFirstName,
		ContactLastName:  job.ContactLastName,
		ContactEmail:     job.ContactEmail,
		ContactPhone:     job.ContactPhone,
		EmployerWebsite:  job.EmployerWebsite,
		TotalOpenings:    job.TotalOpenings,
	}

	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return types.Violations{{
			Field:   "job",
			Rule:    RuleScalarPayload,
			Message: fmt.Sprintf("format check could not run: %v", err),
		}}
	}

	var violations types.Violations
	for _, fe := range validationErrs {
		info, known := formatFieldInfo[fe.StructField()]
		if !known {
			violations = append(violations, types.Violation{
				Field:   fe.StructField(),
				Rule:    fe.Tag(),
				Message: fe.Error(),
			})
			continue
		}
		violations = append(violations, types.Violation{
			Field:   info.Path,
			Rule:    info.Rule,
			Message: info.Message,
		})
	}
	return violations
}

// StripMarkup reduces authored rich text to plain text for length checks.
// Non-HTML input passes through unchanged apart from whitespace trimming.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
