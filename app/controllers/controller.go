// Package controllers adapts HTTP requests to the resource services. They
// bind JSON, call one service method and pick the status code; nothing else.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
)

// fail writes the error response for err. fallback is used when err did
// not come from the service layer.
func fail(c *ctx.Context, err error, fallback string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.Invalid(verr.Violation)
		return
	}

	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		c.Log().Error("request failed", "error", err)
	}
	c.Error(status, services.Message(err, fallback))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAuthFailed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
