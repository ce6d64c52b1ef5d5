package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
	"github.com/oksasatya/go-ddd-user-service/internal/metrics"
	"github.com/oksasatya/go-ddd-user-service/pkg/response"
)

type errorBody struct {
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
	Rule  string `json:"rule,omitempty"`
}

// statusFor maps an error kind to an HTTP status and an outcome label.
func statusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, "ok"
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "error"
}

func observe(op string, err error) {
	_, outcome := statusFor(err)
	metrics.UserOperations.WithLabelValues(op, outcome).Inc()
}

// writeError renders a domain error. Anything that is not a domain error, and
// data integrity failures, are logged and hidden behind a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, outcome := statusFor(err)
	e, ok := errs.As(err)
	if status == http.StatusInternalServerError || !ok {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"route":      c.FullPath(),
				"error":      err.Error(),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", errorBody{Kind: "internal"})
		return
	}
	response.Error[any](c, status, e.Message, errorBody{Kind: outcome, Field: e.Field, Rule: e.Rule})
}
