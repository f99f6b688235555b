// Package taxonomy fetches versioned concept vocabularies from the external
// taxonomy source and refreshes the local store type by type.
package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// SourceError represents an error talking to the taxonomy source API.
type SourceError struct {
	Type    types.ConceptType
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy source error for %s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("taxonomy source error for %s: %s", e.Type, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// sourceConcept is one record of a taxonomy source page. The legacy
// identifier is optional; newer vocabularies no longer carry it.
type sourceConcept struct {
	ConceptID string  `json:"conceptId"`
	Label     string  `json:"preferredLabel"`
	LegacyID  *string `json:"legacyAmsTaxonomyId,omitempty"`
}

// SourceOptions configures the source client.
type SourceOptions struct {
	BaseURL  string
	PageSize int
	// MaxPages bounds pagination per type so a misbehaving upstream
	// cannot keep the refresher fetching forever.
	MaxPages   int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// SourceClient fetches concept pages from the taxonomy source API.
type SourceClient struct {
	baseURL    string
	pageSize   int
	maxPages   int
	httpClient *http.Client
}

// NewSourceClient creates a source client. A nil HTTPClient gets a default
// client carrying the configured timeout.
func NewSourceClient(opts SourceOptions) *SourceClient {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &SourceClient{
		baseURL:    opts.BaseURL,
		pageSize:   opts.PageSize,
		maxPages:   opts.MaxPages,
		httpClient: client,
	}
}

// FetchConcepts retrieves every concept of a (type, version) pair, paging
// sequentially until a short page. Exceeding the page bound is an error:
// a truncated vocabulary must fail loudly instead of shrinking silently.
func (c *SourceClient) FetchConcepts(ctx context.Context, typ types.ConceptType, version int) ([]types.Concept, error) {
	var concepts []types.Concept

	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, &SourceError{
				Type:    typ,
				Message: fmt.Sprintf("page bound of %d reached before a short page", c.maxPages),
			}
		}

		records, err := c.fetchPage(ctx, typ, version, page*c.pageSize)
		if err != nil {
			return nil, err
		}

		for _, r := range records {
			concepts = append(concepts, types.Concept{
				ConceptID: r.ConceptID,
				Type:      typ,
				Version:   version,
				Label:     r.Label,
				LegacyID:  r.LegacyID,
			})
		}

		if len(records) < c.pageSize {
			return concepts, nil
		}
	}
}

func (c *SourceClient) fetchPage(ctx context.Context, typ types.ConceptType, version, offset int) ([]sourceConcept, error) {
	pageURL, err := url.Parse(c.baseURL + "/concepts")
	if err != nil {
		return nil, &SourceError{Type: typ, Message: "invalid base URL", Cause: err}
	}

	q := url.Values{}
	q.Set("type", string(typ))
	q.Set("version", strconv.Itoa(version))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(c.pageSize))
	pageURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, &SourceError{Type: typ, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceError{Type: typ, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{Type: typ, Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SourceError{Type: typ, Message: "failed to read response body", Cause: err}
	}

	var records []sourceConcept
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &SourceError{Type: typ, Message: "failed to parse response", Cause: err}
	}
	return records, nil
}
