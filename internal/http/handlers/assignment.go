package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"service-cleaning-booking/internal/logx"
)

// AssignmentHandler serves HTTP endpoints for assignment resources.
type AssignmentHandler struct {
	uc       assignmentUsecase
	validate *requestValidator
	logger   logx.Logger
}

// NewAssignmentHandler wires an assignment usecase into HTTP handlers.
func NewAssignmentHandler(uc assignmentUsecase, logger logx.Logger) *AssignmentHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AssignmentHandler{uc: uc, validate: newRequestValidator(), logger: logger}
}

// Create handles POST /assignments.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !h.valid(w, r, req) {
		return
	}

	a, err := h.uc.CreateAssignment(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/assignments/"+strconv.FormatInt(a.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, assignmentToResponse(a))
}

// GetByID handles GET /assignments/{id}.
func (h *AssignmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.uc.GetAssignment(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToResponse(a))
}

// Transition handles POST /assignments/{id}/transitions.
func (h *AssignmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if !h.valid(w, r, req) {
		return
	}

	a, err := h.uc.TransitionAssignment(r.Context(), req.toInput(id))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, assignmentToResponse(a))
}

// History handles GET /assignments/{id}/history.
func (h *AssignmentHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	entries, err := h.uc.History(r.Context(), id)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, historyToResponse(entries))
}

// Delete handles DELETE /assignments/{id}.
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.uc.DeleteAssignment(r.Context(), id); err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssignmentHandler) valid(w http.ResponseWriter, r *http.Request, req any) bool {
	err := h.validate.Struct(req)
	if err == nil {
		return true
	}
	var fe fieldErrors
	if errors.As(err, &fe) {
		writeErrorBody(h.logger, w, r, http.StatusBadRequest, errResponse{
			Error:   "invalid input",
			Code:    "validation_failed",
			Details: fe,
		})
		return false
	}
	writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	return false
}
