package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/services"
)

// EnclaveHandler exposes enclave permission maps over HTTP
type EnclaveHandler struct {
	enclave services.EnclaveServiceInterface
}

// NewEnclaveHandler creates a new EnclaveHandler
func NewEnclaveHandler(enclave services.EnclaveServiceInterface) *EnclaveHandler {
	return &EnclaveHandler{enclave: enclave}
}

type enclaveRequest struct {
	EnclaveOwner string `json:"enclave_owner"`
	Hash         string `json:"hash"`
	Grantee      string `json:"grantee"`
	Granted      bool   `json:"granted"`
}

type enclavePermissionResponse struct {
	Set     bool `json:"set"`
	Granted bool `json:"granted"`
}

type enclaveRowResponse struct {
	Owner       string          `json:"owner"`
	ScriptID    uint64          `json:"script_id"`
	Permissions map[string]bool `json:"permissions"`
}

// Set handles PUT /enclave-access
func (h *EnclaveHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req enclaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.EnclaveOwner == "" || req.Hash == "" || req.Grantee == "" {
		writeBadRequest(w, "enclave_owner, hash, and grantee are required")
		return
	}

	err := h.enclave.SetEnclaveAccess(r.Context(), callerFrom(r), req.EnclaveOwner, req.Hash, req.Grantee, req.Granted)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Get handles GET /enclave-access/{owner}/hash/{hash}?grantee=
// With a grantee it returns that grantee's tri-state permission;
// without one it returns the whole permission map.
func (h *EnclaveHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	hash := r.PathValue("hash")

	if grantee := r.URL.Query().Get("grantee"); grantee != "" {
		perm, err := h.enclave.GetEnclavePermission(r.Context(), owner, hash, grantee)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, enclavePermissionResponse{Set: perm.Set, Granted: perm.Granted})
		return
	}

	entry, err := h.enclave.GetEnclaveAccess(r.Context(), owner, hash)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, enclaveRowResponse{
		Owner:       entry.Owner,
		ScriptID:    entry.ScriptID,
		Permissions: entry.Permissions,
	})
}
