// Package platsbanken talks to the remote job exchange's publishing API and
// translates its responses into normalized outcomes.
package platsbanken

import (
	"fmt"
	"time"

	"github.com/rekrytera/jobad-publisher/internal/compliance"
	"github.com/rekrytera/jobad-publisher/internal/types"
)

// Workplace is one advertised workplace in the publish payload.
type Workplace struct {
	Municipality string `json:"municipality"`
	Country      string `json:"country"`
	Street       string `json:"street"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
}

// Contact is one recruiting contact in the publish payload.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Application is the application method offered to job seekers.
type Application struct {
	WebAddress string `json:"webAddress"`
}

// Keywords carries the exchange's keyword flags.
type Keywords struct {
	ExtractFromDescription bool `json:"extractFromDescription"`
}

// Payload is the create/update request body. Concept fields are flat
// string identifiers; the remote contract rejects anything structured.
type Payload struct {
	Headline            string      `json:"headline"`
	Description         string      `json:"description"`
	Occupation          string      `json:"occupation"`
	EmploymentType      string      `json:"employmentType"`
	Duration            string      `json:"duration"`
	WorktimeExtent      string      `json:"worktimeExtent,omitempty"`
	WageType            string      `json:"wageType"`
	TotalVacancies      int         `json:"totalVacancies"`
	LastApplicationDate string      `json:"lastApplicationDate"`
	EmployerWebsite     string      `json:"employerWebsite"`
	Workplaces          []Workplace `json:"workplaces"`
	Contacts            []Contact   `json:"contacts"`
	Application         Application `json:"application"`
	Keywords            Keywords    `json:"keywords"`
}

// BuildPayload assembles the publish payload from a validated job ad.
// The wage type has no resolution strategy; the fixed-salary concept is
// the contract's required default.
func BuildPayload(job *types.JobAd) (*Payload, error) {
	if job.OccupationConceptID == nil || job.MunicipalityConceptID == nil || job.EmploymentTypeConceptID == nil {
		return nil, fmt.Errorf("job %s is not fully resolved", job.ID)
	}
	if job.LastApplicationDate == nil {
		return nil, fmt.Errorf("job %s has no last application date", job.ID)
	}

	p := &Payload{
		Headline:            job.Title,
		Description:         compliance.StripMarkup(job.DescriptionText),
		Occupation:          *job.OccupationConceptID,
		EmploymentType:      *job.EmploymentTypeConceptID,
		WageType:            types.ConceptIDFastLon,
		TotalVacancies:      job.TotalOpenings,
		LastApplicationDate: job.LastApplicationDate.Format(time.DateOnly),
		EmployerWebsite:     job.EmployerWebsite,
		Workplaces: []Workplace{{
			Municipality: *job.MunicipalityConceptID,
			Country:      types.ConceptIDSverige,
			Street:       job.WorkplaceAddress.Street,
			PostalCode:   job.WorkplaceAddress.PostalCode,
			City:         job.WorkplaceAddress.City,
		}},
		Contacts: []Contact{{
			FirstName: job.ContactFirstName,
			LastName:  job.ContactLastName,
			Email:     job.ContactEmail,
			Phone:     job.ContactPhone,
		}},
		Application: Application{WebAddress: job.ApplicationURL},
		Keywords:    Keywords{ExtractFromDescription: true},
	}

	if job.DurationConceptID != nil {
		p.Duration = *job.DurationConceptID
	}
	if job.WorktimeExtentConceptID != nil {
		p.WorktimeExtent = *job.WorktimeExtentConceptID
	}
	return p, nil
}
