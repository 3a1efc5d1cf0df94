package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/services"
)

// ProviderHandler exposes the provider registry over HTTP
type ProviderHandler struct {
	providers services.ProviderServiceInterface
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(providers services.ProviderServiceInterface) *ProviderHandler {
	return &ProviderHandler{providers: providers}
}

type providerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type serviceRequest struct {
	Description string `json:"description"`
	Protocol    string `json:"protocol"`
	Type        string `json:"type"`
	Endpoint    string `json:"endpoint"`
}

type serviceResponse struct {
	Provider    string `json:"provider"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Protocol    string `json:"protocol"`
	Type        string `json:"type"`
	Endpoint    string `json:"endpoint"`
}

func toServiceResponse(s *entities.Service) *serviceResponse {
	return &serviceResponse{
		Provider:    s.Provider,
		Name:        s.Name,
		Description: s.Description,
		Protocol:    s.Protocol,
		Type:        s.Type,
		Endpoint:    s.Endpoint,
	}
}

// Register handles POST /providers
func (h *ProviderHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	provider := &entities.Provider{Name: req.Name, Description: req.Description}
	if err := h.providers.Register(r.Context(), callerFrom(r), provider); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, nil)
}

// Update handles PATCH /providers/{name}
func (h *ProviderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	err := h.providers.UpdateDescription(r.Context(), callerFrom(r), r.PathValue("name"), req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Deregister handles DELETE /providers/{name}.
// Everything scoped to the provider disappears with it.
func (h *ProviderHandler) Deregister(w http.ResponseWriter, r *http.Request) {
	if err := h.providers.Deregister(r.Context(), callerFrom(r), r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// Get handles GET /providers/{name}
func (h *ProviderHandler) Get(w http.ResponseWriter, r *http.Request) {
	provider, err := h.providers.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, providerRequest{Name: provider.Name, Description: provider.Description})
}

// List handles GET /providers
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]providerRequest, 0, len(providers))
	for _, p := range providers {
		out = append(out, providerRequest{Name: p.Name, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

// AddService handles POST /providers/{name}/services
func (h *ProviderHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		serviceRequest
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	service := &entities.Service{
		Provider:    r.PathValue("name"),
		Name:        req.Name,
		Description: req.Description,
		Protocol:    req.Protocol,
		Type:        req.Type,
		Endpoint:    req.Endpoint,
	}

	if err := h.providers.AddService(r.Context(), callerFrom(r), service); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, nil)
}

// UpdateService handles PUT /providers/{name}/services/{svc}
func (h *ProviderHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	service := &entities.Service{
		Provider:    r.PathValue("name"),
		Name:        r.PathValue("svc"),
		Description: req.Description,
		Protocol:    req.Protocol,
		Type:        req.Type,
		Endpoint:    req.Endpoint,
	}

	if err := h.providers.UpdateService(r.Context(), callerFrom(r), service); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// RemoveService handles DELETE /providers/{name}/services/{svc}
func (h *ProviderHandler) RemoveService(w http.ResponseWriter, r *http.Request) {
	err := h.providers.RemoveService(r.Context(), callerFrom(r), r.PathValue("name"), r.PathValue("svc"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

// ListServices handles GET /providers/{name}/services
func (h *ProviderHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.providers.ListServices(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}
