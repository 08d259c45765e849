// Package handler provides HTTP handlers for the WaterSight API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/watersight/watersight/internal/api/models"
	"github.com/watersight/watersight/internal/api/response"
	"github.com/watersight/watersight/internal/controller"
)

// QueryHandler handles assistant query submission.
type QueryHandler struct {
	controller *controller.Controller
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(c *controller.Controller) *QueryHandler {
	return &QueryHandler{controller: c}
}

// SubmitQuery handles POST /v1/queries. At most one query is processed at a
// time; a second submission while one is in flight gets a 409.
func (h *QueryHandler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	result, err := h.controller.Submit(r.Context(), req.Query)
	switch {
	case errors.Is(err, controller.ErrEmptyQuery):
		response.BadRequest(w, r, "query must not be empty", []models.FieldError{
			{Field: "query", Message: "must not be empty", Code: "required"},
		})
		return
	case errors.Is(err, controller.ErrBusy):
		response.Conflict(w, r, "a query is already being processed")
		return
	case err != nil:
		response.InternalError(w, r, "query processing failed")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
