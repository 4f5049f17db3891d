package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hemafield/lead-capture/internal/infra/http/middleware"
	"github.com/hemafield/lead-capture/internal/leadform"
	"github.com/hemafield/lead-capture/internal/usecase"
)

// RulesVersionHeader carries the client's leadform.RulesVersion.
const RulesVersionHeader = "X-Leadform-Version"

type SubmitLeadExecutor interface {
	Execute(ctx context.Context, input usecase.SubmitLeadInput) (*usecase.Output, error)
}

type SubscribeExecutor interface {
	Execute(ctx context.Context, input usecase.SubscribeInput) (*usecase.Output, error)
}

type LeadHandler struct {
	SubmitLeadUC SubmitLeadExecutor
	SubscribeUC  SubscribeExecutor
}

func NewLeadHandler(submitLead SubmitLeadExecutor, subscribe SubscribeExecutor) *LeadHandler {
	return &LeadHandler{
		SubmitLeadUC: submitLead,
		SubscribeUC:  subscribe,
	}
}

// SubmitLead handles POST /submit-lead.
func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	checkRulesVersion(r)

	var input usecase.SubmitLeadInput
	if !decodeBody(w, r, &input) {
		return
	}

	output, err := h.SubmitLeadUC.Execute(r.Context(), input)
	if err != nil {
		h.fail(w, r, "submit_lead", err)
		return
	}

	middleware.RecordLeadCaptured(string(input.Campaign))
	if !output.Persisted {
		middleware.RecordPersistenceError("submit_lead")
	}

	writeJSON(w, http.StatusOK, output)
}

// Subscribe handles POST /subscribe.
func (h *LeadHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	checkRulesVersion(r)

	var input usecase.SubscribeInput
	if !decodeBody(w, r, &input) {
		return
	}

	output, err := h.SubscribeUC.Execute(r.Context(), input)
	if err != nil {
		h.fail(w, r, "subscribe", err)
		return
	}

	middleware.RecordSubscription(string(input.Campaign))
	if !output.Persisted {
		middleware.RecordPersistenceError("subscribe")
	}

	writeJSON(w, http.StatusOK, output)
}

// fail maps use case errors to responses. Only validation messages reach the
// caller; everything else is logged and answered with the generic message.
func (h *LeadHandler) fail(w http.ResponseWriter, r *http.Request, flow string, err error) {
	var vErr *leadform.ValidationError
	if errors.As(err, &vErr) {
		writeErrorResponse(w, http.StatusBadRequest, vErr.Error())
		return
	}

	if usecase.IsNotificationError(err) {
		middleware.RecordNotificationError(flow)
	}

	slog.ErrorContext(r.Context(), "request failed", "flow", flow, "err", err)
	writeErrorResponse(w, http.StatusInternalServerError, usecase.GenericFailureMessage)
}

func checkRulesVersion(r *http.Request) {
	v := r.Header.Get(RulesVersionHeader)
	if v != "" && v != leadform.RulesVersion {
		slog.WarnContext(r.Context(), "client validation rules differ from server",
			"client_version", v, "server_version", leadform.RulesVersion)
	}
}
