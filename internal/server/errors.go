package server

import (
	"errors"
	"net/http"

	"github.com/rekrytera/jobad-publisher/internal/publish"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *publish.ErrJobNotFound
	var notPublishable *publish.ErrNotPublishable

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &notPublishable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
