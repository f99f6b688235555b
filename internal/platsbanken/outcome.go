package platsbanken

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rekrytera/jobad-publisher/internal/types"
)

// OutcomeKind classifies a remote call's result.
type OutcomeKind string

// Outcome kinds.
const (
	Accepted         OutcomeKind = "accepted"
	Rejected         OutcomeKind = "rejected"
	TransportFailure OutcomeKind = "transport_failure"
)

// Outcome is the normalized result of one create or update call.
// FieldErrors carry the authoritative detail when the body provides them;
// Hint is a coarse status bucket kept for logging only.
type Outcome struct {
	Kind        OutcomeKind
	RemoteAdID  string
	StatusCode  int
	Hint        string
	Message     string
	FieldErrors []types.FieldError
	Cause       error
}

// RemoteError converts a non-accepted outcome into the persistable
// last_error snapshot. Returns nil for accepted outcomes.
func (o *Outcome) RemoteError() *types.RemoteError {
	switch o.Kind {
	case Rejected:
		return &types.RemoteError{
			Kind:        types.RemoteErrorRejected,
			StatusCode:  o.StatusCode,
			Message:     o.Message,
			FieldErrors: o.FieldErrors,
		}
	case TransportFailure:
		msg := o.Message
		if msg == "" && o.Cause != nil {
			msg = o.Cause.Error()
		}
		return &types.RemoteError{
			Kind:       types.RemoteErrorTransport,
			StatusCode: o.StatusCode,
			Message:    msg,
		}
	default:
		return nil
	}
}

// createdBody is the success response of the create endpoint.
type createdBody struct {
	ID string `json:"id"`
}

// errorBody is the structured error response shape. Both field lists are
// accepted; the API has used both names across versions.
type errorBody struct {
	Message     string             `json:"message"`
	FieldErrors []types.FieldError `json:"fieldErrors"`
	Errors      []types.FieldError `json:"errors"`
}

const maxRawBody = 500

// Translate maps a raw HTTP status and body to a normalized outcome.
// Non-JSON bodies never fail the translation: the raw text becomes the
// message and the status decides the kind.
func Translate(statusCode int, body []byte) *Outcome {
	switch {
	case statusCode >= 200 && statusCode < 300:
		var created createdBody
		if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
			return &Outcome{
				Kind:       TransportFailure,
				StatusCode: statusCode,
				Hint:       "malformed success body",
				Message:    "accepted response carried no ad identifier",
			}
		}
		return &Outcome{Kind: Accepted, StatusCode: statusCode, RemoteAdID: created.ID}

	case statusCode >= 400 && statusCode < 500:
		out := &Outcome{Kind: Rejected, StatusCode: statusCode, Hint: statusHint(statusCode)}
		var parsed errorBody
		if err := json.Unmarshal(body, &parsed); err == nil {
			out.Message = parsed.Message
			out.FieldErrors = parsed.FieldErrors
			if len(out.FieldErrors) == 0 {
				out.FieldErrors = parsed.Errors
			}
		}
		if out.Message == "" && len(out.FieldErrors) == 0 {
			out.Message = rawBodyMessage(body)
		}
		return out

	default:
		return &Outcome{
			Kind:       TransportFailure,
			StatusCode: statusCode,
			Hint:       statusHint(statusCode),
			Message:    rawBodyMessage(body),
		}
	}
}

// TransportError wraps a failed round trip (timeout, refused connection,
// unreadable body) as an outcome.
func TransportError(err error) *Outcome {
	return &Outcome{Kind: TransportFailure, Hint: "transport", Cause: err}
}

func statusHint(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "validation error"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "auth error"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "duplicate"
	case http.StatusUnsupportedMediaType:
		return "unsupported media type"
	default:
		if code >= 500 {
			return "server error"
		}
		return "client error"
	}
}

func rawBodyMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxRawBody {
		text = text[:maxRawBody] + "..."
	}
	return text
}
