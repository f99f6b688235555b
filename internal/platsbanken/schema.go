package platsbanken

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rekrytera/jobad-publisher/internal/compliance"
	"github.com/rekrytera/jobad-publisher/internal/types"
)

// payloadSchema pins the remote contract's shape: every concept field is a
// flat scalar string. A resolution bug that smuggles a structured value
// into a concept slot fails here, before any network call.
const payloadSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["headline", "description", "occupation", "employmentType", "wageType", "totalVacancies", "lastApplicationDate", "workplaces", "contacts", "application"],
	"properties": {
		"headline": {"type": "string", "minLength": 1},
		"description": {"type": "string", "minLength": 1},
		"occupation": {"type": "string", "minLength": 1},
		"employmentType": {"type": "string", "minLength": 1},
		"duration": {"type": "string"},
		"worktimeExtent": {"type": "string"},
		"wageType": {"type": "string", "minLength": 1},
		"totalVacancies": {"type": "integer", "minimum": 1},
		"lastApplicationDate": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
		"employerWebsite": {"type": "string"},
		"workplaces": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["municipality", "country", "postalCode", "city"],
				"properties": {
					"municipality": {"type": "string", "minLength": 1},
					"country": {"type": "string", "minLength": 1},
					"street": {"type": "string"},
					"postalCode": {"type": "string"},
					"city": {"type": "string"}
				}
			}
		},
		"contacts": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"firstName": {"type": "string"},
					"lastName": {"type": "string"},
					"email": {"type": "string"},
					"phone": {"type": "string"}
				}
			}
		},
		"application": {
			"type": "object",
			"required": ["webAddress"],
			"properties": {"webAddress": {"type": "string", "minLength": 1}}
		},
		"keywords": {
			"type": "object",
			"properties": {"extractFromDescription": {"type": "boolean"}}
		}
	}
}`

// CheckPayload validates the marshalled payload against the remote
// contract's schema. Failures come back as violations and are fatal
// locally: a malformed payload is never sent.
func CheckPayload(p *Payload) (types.Violations, error) {
	doc, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(payloadSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run payload schema check: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make(types.Violations, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, types.Violation{
			Field:   field,
			Rule:    compliance.RuleScalarPayload,
			Message: desc.Description(),
		})
	}
	return violations, nil
}
