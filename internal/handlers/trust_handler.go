package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/services"
)

// TrustHandler exposes the trust graph over HTTP
type TrustHandler struct {
	trust services.TrustServiceInterface
}

// NewTrustHandler creates a new TrustHandler
func NewTrustHandler(trust services.TrustServiceInterface) *TrustHandler {
	return &TrustHandler{trust: trust}
}

type trustRequest struct {
	Truster string `json:"truster"`
	Trustee string `json:"trustee"`
	Trust   bool   `json:"trust"`
}

// Set handles PUT /trust
func (h *TrustHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req trustRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Truster == "" || req.Trustee == "" {
		writeBadRequest(w, "truster and trustee are required")
		return
	}

	err := h.trust.SetTrust(r.Context(), callerFrom(r), req.Truster, req.Trustee, req.Trust)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Get handles GET /trust/{truster}/{trustee}
func (h *TrustHandler) Get(w http.ResponseWriter, r *http.Request) {
	relation, err := h.trust.GetTrust(r.Context(), r.PathValue("truster"), r.PathValue("trustee"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trustRequest{
		Truster: relation.Truster,
		Trustee: relation.Trustee,
		Trust:   relation.Trust,
	})
}

// List handles GET /trust?truster=
func (h *TrustHandler) List(w http.ResponseWriter, r *http.Request) {
	truster := r.URL.Query().Get("truster")
	if truster == "" {
		writeBadRequest(w, "truster query parameter is required")
		return
	}

	relations, err := h.trust.ListByTruster(r.Context(), truster)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]trustRequest, 0, len(relations))
	for _, relation := range relations {
		resp = append(resp, trustRequest{
			Truster: relation.Truster,
			Trustee: relation.Trustee,
			Trust:   relation.Trust,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
