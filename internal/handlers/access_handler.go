package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/services"
)

// AccessHandler exposes owner-issued access grants over HTTP
type AccessHandler struct {
	access services.AccessServiceInterface
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(access services.AccessServiceInterface) *AccessHandler {
	return &AccessHandler{access: access}
}

type accessRequest struct {
	Owner   string `json:"owner"`
	Hash    string `json:"hash"`
	Grantee string `json:"grantee"`
	Granted bool   `json:"granted"`
}

type accessResponse struct {
	Grantee  string `json:"grantee"`
	ScriptID uint64 `json:"script_id"`
	Granted  bool   `json:"granted"`
}

// Set handles PUT /access
func (h *AccessHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" || req.Hash == "" || req.Grantee == "" {
		writeBadRequest(w, "owner, hash, and grantee are required")
		return
	}

	err := h.access.SetAccess(r.Context(), callerFrom(r), req.Owner, req.Hash, req.Grantee, req.Granted)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Get handles GET /access/{grantee}/hash/{hash}
func (h *AccessHandler) Get(w http.ResponseWriter, r *http.Request) {
	grant, err := h.access.GetAccess(r.Context(), r.PathValue("grantee"), r.PathValue("hash"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accessResponse{
		Grantee:  grant.Grantee,
		ScriptID: grant.ScriptID,
		Granted:  grant.Granted,
	})
}

// List handles GET /access?grantee=
func (h *AccessHandler) List(w http.ResponseWriter, r *http.Request) {
	grantee := r.URL.Query().Get("grantee")
	if grantee == "" {
		writeBadRequest(w, "grantee query parameter is required")
		return
	}

	grants, err := h.access.ListByGrantee(r.Context(), grantee)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]accessResponse, 0, len(grants))
	for _, grant := range grants {
		resp = append(resp, accessResponse{
			Grantee:  grant.Grantee,
			ScriptID: grant.ScriptID,
			Granted:  grant.Granted,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
