package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/services"
)

// ApprovalHandler exposes execution approvals over HTTP
type ApprovalHandler struct {
	approvals services.ApprovalServiceInterface
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvals services.ApprovalServiceInterface) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

type approvalRequest struct {
	Provider string `json:"provider"`
	Hash     string `json:"hash"`
	Approved bool   `json:"approved"`
}

type approvalResponse struct {
	Provider string `json:"provider"`
	ScriptID uint64 `json:"script_id"`
	Approved bool   `json:"approved"`
}

// Set handles PUT /approvals
func (h *ApprovalHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Provider == "" || req.Hash == "" {
		writeBadRequest(w, "provider and hash are required")
		return
	}

	err := h.approvals.SetApproval(r.Context(), callerFrom(r), req.Provider, req.Hash, req.Approved)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Get handles GET /approvals/{provider}/hash/{hash}
func (h *ApprovalHandler) Get(w http.ResponseWriter, r *http.Request) {
	approval, err := h.approvals.GetApproval(r.Context(), r.PathValue("provider"), r.PathValue("hash"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, approvalResponse{
		Provider: approval.Provider,
		ScriptID: approval.ScriptID,
		Approved: approval.Approved,
	})
}

// List handles GET /approvals?provider=
func (h *ApprovalHandler) List(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		writeBadRequest(w, "provider query parameter is required")
		return
	}

	approvals, err := h.approvals.ListByProvider(r.Context(), provider)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]approvalResponse, 0, len(approvals))
	for _, approval := range approvals {
		resp = append(resp, approvalResponse{
			Provider: approval.Provider,
			ScriptID: approval.ScriptID,
			Approved: approval.Approved,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
