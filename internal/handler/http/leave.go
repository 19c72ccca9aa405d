package http

import (
	"encoding/json"
	"net/http"

	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
	"github.com/chronohq/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	InitializeBalance(w http.ResponseWriter, r *http.Request)
	MyBalances(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	typeService    leave.TypeService
	ledgerService  leave.LedgerService
	requestService leave.RequestService
}

func NewLeaveHandler(
	typeService leave.TypeService,
	ledgerService leave.LedgerService,
	requestService leave.RequestService,
) LeaveHandler {
	return &leaveHandlerImpl{
		typeService:    typeService,
		ledgerService:  ledgerService,
		requestService: requestService,
	}
}

// CreateType implements LeaveHandler.
func (h *leaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.typeService.CreateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", result)
}

// ListTypes implements LeaveHandler.
func (h *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.typeService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// InitializeBalance implements LeaveHandler.
func (h *leaveHandlerImpl) InitializeBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.InitializeBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.InitializeBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave balance initialized", result)
}

// MyBalances implements LeaveHandler.
func (h *leaveHandlerImpl) MyBalances(w http.ResponseWriter, r *http.Request) {
	year := getIntQueryParam(r, "year", 0)

	result, err := h.ledgerService.GetMyBalances(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateRequest implements LeaveHandler.
func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.requestService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created", result)
}

// MyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.ListMyRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.requestService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements LeaveHandler.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Reason string `json:"reason"`
	}
	// Body is optional for rejections.
	_ = json.NewDecoder(r.Body).Decode(&body)

	result, err := h.requestService.Reject(r.Context(), id, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// Cancel implements LeaveHandler.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.requestService.Cancel(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", result)
}
