package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/services"
)

// ScriptHandler exposes script publication and lookup over HTTP
type ScriptHandler struct {
	scripts services.ScriptServiceInterface
}

// NewScriptHandler creates a new ScriptHandler
func NewScriptHandler(scripts services.ScriptServiceInterface) *ScriptHandler {
	return &ScriptHandler{scripts: scripts}
}

// scriptRequest is the JSON body for publish and update calls.
type scriptRequest struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Hash        string `json:"hash"`
	URL         string `json:"url"`
}

// scriptResponse mirrors the stored script record.
type scriptResponse struct {
	ID            uint64 `json:"id"`
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	Description   string `json:"description"`
	Hash          string `json:"hash"`
	URL           string `json:"url"`
	ApprovesCount int64  `json:"approves_count"`
}

func toScriptResponse(s *entities.Script) *scriptResponse {
	return &scriptResponse{
		ID:            s.ID,
		Owner:         s.Owner,
		Name:          s.Name,
		Version:       s.Version,
		Description:   s.Description,
		Hash:          s.Hash,
		URL:           s.URL,
		ApprovesCount: s.ApprovesCount,
	}
}

// Add handles POST /scripts
func (h *ScriptHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Owner == "" || req.Name == "" || req.Version == "" || req.Hash == "" {
		writeBadRequest(w, "owner, name, version, and hash are required")
		return
	}

	script := &entities.Script{
		Owner:       req.Owner,
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		Hash:        req.Hash,
		URL:         req.URL,
	}

	id, err := h.scripts.AddScript(r.Context(), callerFrom(r), script)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

// Update handles PUT /scripts/{owner}/{name}/{version}
func (h *ScriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Hash == "" {
		writeBadRequest(w, "hash is required")
		return
	}

	script := &entities.Script{
		Owner:       r.PathValue("owner"),
		Name:        r.PathValue("name"),
		Version:     r.PathValue("version"),
		Description: req.Description,
		Hash:        req.Hash,
		URL:         req.URL,
	}

	if err := h.scripts.UpdateScript(r.Context(), callerFrom(r), script); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Remove handles DELETE /scripts/{owner}/{name}/{version}
func (h *ScriptHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.scripts.RemoveScript(r.Context(), callerFrom(r),
		r.PathValue("owner"), r.PathValue("name"), r.PathValue("version"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// GetByKey handles GET /scripts/{owner}/{name}/{version}
func (h *ScriptHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	script, err := h.scripts.GetByKey(r.Context(),
		r.PathValue("owner"), r.PathValue("name"), r.PathValue("version"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScriptResponse(script))
}

// GetByHash handles GET /scripts/hash/{hash}
func (h *ScriptHandler) GetByHash(w http.ResponseWriter, r *http.Request) {
	script, err := h.scripts.GetByHash(r.Context(), r.PathValue("hash"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScriptResponse(script))
}

// List handles GET /scripts?owner=
func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeBadRequest(w, "owner query parameter is required")
		return
	}

	scripts, err := h.scripts.ListByOwner(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*scriptResponse, 0, len(scripts))
	for _, s := range scripts {
		out = append(out, toScriptResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}
