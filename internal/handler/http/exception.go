package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronohq/attendance-engine-go/internal/domain/exception"
	"github.com/chronohq/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ExceptionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type exceptionHandlerImpl struct {
	exceptionService exception.Service
}

func NewExceptionHandler(exceptionService exception.Service) ExceptionHandler {
	return &exceptionHandlerImpl{exceptionService: exceptionService}
}

// Create implements ExceptionHandler.
func (h *exceptionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req exception.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exceptionService.RequestException(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Exception request filed", result)
}

// Resolve implements ExceptionHandler.
func (h *exceptionHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req exception.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	result, err := h.exceptionService.ResolveException(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Exception request resolved", result)
}

// List implements ExceptionHandler.
func (h *exceptionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		response.BadRequest(w, "Query parameter 'session_id' is required", nil)
		return
	}

	result, err := h.exceptionService.ListExceptions(r.Context(), sessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
