// Package types provides type definitions for structured data shared across the publication pipeline.
package types

// ConceptType identifies a taxonomy vocabulary.
type ConceptType string

// Taxonomy concept types consumed by the publication pipeline.
const (
	ConceptOccupation     ConceptType = "occupation-name"
	ConceptMunicipality   ConceptType = "municipality"
	ConceptEmploymentType ConceptType = "employment-type"
	ConceptDuration       ConceptType = "employment-duration"
	ConceptWorktimeExtent ConceptType = "worktime-extent"
	ConceptWageType       ConceptType = "wage-type"
	ConceptCountry        ConceptType = "country"
)

// AllConceptTypes lists every vocabulary the refresher maintains.
var AllConceptTypes = []ConceptType{
	ConceptOccupation,
	ConceptMunicipality,
	ConceptEmploymentType,
	ConceptDuration,
	ConceptWorktimeExtent,
	ConceptWageType,
	ConceptCountry,
}

// Concept is one entry of a versioned taxonomy vocabulary.
// ConceptID is unique within a (Type, Version) pair and a concept
// never changes Type after creation.
type Concept struct {
	ConceptID string      `json:"concept_id"`
	Type      ConceptType `json:"type"`
	Version   int         `json:"version"`
	Label     string      `json:"label"`
	LegacyID  *string     `json:"legacy_id,omitempty"`
}
