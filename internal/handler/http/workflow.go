package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/workflow"
	"github.com/kapehan/cafe-workforce-backend-go/internal/handler/http/response"
)

type WorkflowHandler interface {
	CreateTrade(w http.ResponseWriter, r *http.Request)
	ClaimTrade(w http.ResponseWriter, r *http.Request)
	WithdrawTrade(w http.ResponseWriter, r *http.Request)
	RejectTrade(w http.ResponseWriter, r *http.Request)
	ListTrades(w http.ResponseWriter, r *http.Request)

	CreateDrop(w http.ResponseWriter, r *http.Request)
	ResolveDrop(w http.ResponseWriter, r *http.Request)
	PickupDrop(w http.ResponseWriter, r *http.Request)
	ListDrops(w http.ResponseWriter, r *http.Request)

	RequestTimeOff(w http.ResponseWriter, r *http.Request)
	ApproveTimeOff(w http.ResponseWriter, r *http.Request)
	RejectTimeOff(w http.ResponseWriter, r *http.Request)
	ListTimeOff(w http.ResponseWriter, r *http.Request)
}

type WorkflowHandlerImpl struct {
	workflowService workflow.WorkflowService
}

func NewWorkflowHandler(workflowService workflow.WorkflowService) WorkflowHandler {
	return &WorkflowHandlerImpl{workflowService: workflowService}
}

func (h *WorkflowHandlerImpl) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var req workflow.CreateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create trade decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workflowService.CreateTrade(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Trade request created", result)
}

func (h *WorkflowHandlerImpl) ClaimTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")

	result, err := h.workflowService.ClaimTrade(r.Context(), tradeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Trade claimed", result)
}

func (h *WorkflowHandlerImpl) WithdrawTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")

	result, err := h.workflowService.WithdrawTrade(r.Context(), tradeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Trade withdrawn", result)
}

func (h *WorkflowHandlerImpl) RejectTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")

	result, err := h.workflowService.RejectTrade(r.Context(), tradeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Trade rejected", result)
}

func (h *WorkflowHandlerImpl) ListTrades(w http.ResponseWriter, r *http.Request) {
	var filter workflow.TradeFilter
	if v := r.URL.Query().Get("shift_id"); v != "" {
		filter.ShiftID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	filter.OpenOnly = getBoolQueryParam(r, "open_only", false)

	result, err := h.workflowService.ListTrades(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *WorkflowHandlerImpl) CreateDrop(w http.ResponseWriter, r *http.Request) {
	var req workflow.CreateDropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create drop decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workflowService.CreateDrop(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Drop request created", result)
}

func (h *WorkflowHandlerImpl) ResolveDrop(w http.ResponseWriter, r *http.Request) {
	dropID := chi.URLParam(r, "id")

	var req workflow.ResolveDropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workflowService.ResolveDrop(r.Context(), dropID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Drop request resolved", result)
}

func (h *WorkflowHandlerImpl) PickupDrop(w http.ResponseWriter, r *http.Request) {
	dropID := chi.URLParam(r, "id")

	result, err := h.workflowService.PickupDrop(r.Context(), dropID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift picked up", result)
}

func (h *WorkflowHandlerImpl) ListDrops(w http.ResponseWriter, r *http.Request) {
	var filter workflow.DropFilter
	if v := r.URL.Query().Get("shift_id"); v != "" {
		filter.ShiftID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	result, err := h.workflowService.ListDrops(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *WorkflowHandlerImpl) RequestTimeOff(w http.ResponseWriter, r *http.Request) {
	var req workflow.CreateTimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Request time off decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.workflowService.RequestTimeOff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off request created", result)
}

func (h *WorkflowHandlerImpl) ApproveTimeOff(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	result, err := h.workflowService.ApproveTimeOff(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request approved", result)
}

func (h *WorkflowHandlerImpl) RejectTimeOff(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	result, err := h.workflowService.RejectTimeOff(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request rejected", result)
}

func (h *WorkflowHandlerImpl) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	var filter workflow.TimeOffFilter
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.From = &t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.To = &t
		}
	}

	result, err := h.workflowService.ListTimeOff(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
