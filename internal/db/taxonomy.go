package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// -----------------------------------------------------------------------------
// Taxonomy Concept Methods
// -----------------------------------------------------------------------------

// ReplaceConcepts replaces all concepts of a (type, version) pair with the
// given set inside a single transaction, so a failed refresh leaves the
// prior data for that type intact. Returns the number of concepts stored.
func (db *DB) ReplaceConcepts(ctx context.Context, typ types.ConceptType, version int, concepts []types.Concept) (int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin taxonomy transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`DELETE FROM taxonomy_concepts WHERE type = $1 AND version = $2`,
		typ, version,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear concepts for %s v%d: %w", typ, version, err)
	}

	rows := make([][]any, 0, len(concepts))
	for _, c := range concepts {
		rows = append(rows, []any{c.ConceptID, typ, version, c.Label, c.LegacyID})
	}

	count, err := tx.CopyFrom(ctx,
		pgx.Identifier{"taxonomy_concepts"},
		[]string{"concept_id", "type", "version", "label", "legacy_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert concepts for %s v%d: %w", typ, version, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit taxonomy refresh for %s v%d: %w", typ, version, err)
	}
	return int(count), nil
}

// LookupConcept retrieves one concept by (type, version, conceptID).
// Returns nil without error when the concept does not exist.
func (db *DB) LookupConcept(ctx context.Context, typ types.ConceptType, version int, conceptID string) (*types.Concept, error) {
	var c types.Concept
	err := db.pool.QueryRow(ctx,
		`SELECT concept_id, type, version, label, legacy_id
		 FROM taxonomy_concepts
		 WHERE type = $1 AND version = $2 AND concept_id = $3`,
		typ, version, conceptID,
	).Scan(&c.ConceptID, &c.Type, &c.Version, &c.Label, &c.LegacyID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up concept %s: %w", conceptID, err)
	}
	return &c, nil
}

// ListConceptsByType retrieves all concepts of a (type, version) pair,
// ordered by label for deterministic matching.
func (db *DB) ListConceptsByType(ctx context.Context, typ types.ConceptType, version int) ([]types.Concept, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT concept_id, type, version, label, legacy_id
		 FROM taxonomy_concepts
		 WHERE type = $1 AND version = $2
		 ORDER BY label, concept_id`,
		typ, version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts for %s v%d: %w", typ, version, err)
	}
	defer rows.Close()

	var concepts []types.Concept
	for rows.Next() {
		var c types.Concept
		if err := rows.Scan(&c.ConceptID, &c.Type, &c.Version, &c.Label, &c.LegacyID); err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		concepts = append(concepts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read concepts for %s v%d: %w", typ, version, err)
	}
	return concepts, nil
}
