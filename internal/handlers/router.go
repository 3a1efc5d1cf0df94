package handlers

import (
	"net/http"

	"github.com/aggregion/dmp-registry/internal/services"
)

// NewRouter wires every registry route onto a ServeMux.
func NewRouter(
	scripts services.ScriptServiceInterface,
	providers services.ProviderServiceInterface,
	trust services.TrustServiceInterface,
	approvals services.ApprovalServiceInterface,
	access services.AccessServiceInterface,
	enclave services.EnclaveServiceInterface,
) *http.ServeMux {
	scriptHandler := NewScriptHandler(scripts)
	providerHandler := NewProviderHandler(providers)
	trustHandler := NewTrustHandler(trust)
	approvalHandler := NewApprovalHandler(approvals)
	accessHandler := NewAccessHandler(access)
	enclaveHandler := NewEnclaveHandler(enclave)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /providers", providerHandler.Register)
	mux.HandleFunc("GET /providers", providerHandler.List)
	mux.HandleFunc("GET /providers/{name}", providerHandler.Get)
	mux.HandleFunc("PATCH /providers/{name}", providerHandler.Update)
	mux.HandleFunc("DELETE /providers/{name}", providerHandler.Deregister)
	mux.HandleFunc("POST /providers/{name}/services", providerHandler.AddService)
	mux.HandleFunc("GET /providers/{name}/services", providerHandler.ListServices)
	mux.HandleFunc("PUT /providers/{name}/services/{svc}", providerHandler.UpdateService)
	mux.HandleFunc("DELETE /providers/{name}/services/{svc}", providerHandler.RemoveService)

	mux.HandleFunc("POST /scripts", scriptHandler.Add)
	mux.HandleFunc("GET /scripts", scriptHandler.List)
	mux.HandleFunc("GET /scripts/hash/{hash}", scriptHandler.GetByHash)
	mux.HandleFunc("GET /scripts/{owner}/{name}/{version}", scriptHandler.GetByKey)
	mux.HandleFunc("PUT /scripts/{owner}/{name}/{version}", scriptHandler.Update)
	mux.HandleFunc("DELETE /scripts/{owner}/{name}/{version}", scriptHandler.Remove)

	mux.HandleFunc("PUT /trust", trustHandler.Set)
	mux.HandleFunc("GET /trust", trustHandler.List)
	mux.HandleFunc("GET /trust/{truster}/{trustee}", trustHandler.Get)

	mux.HandleFunc("PUT /approvals", approvalHandler.Set)
	mux.HandleFunc("GET /approvals", approvalHandler.List)
	mux.HandleFunc("GET /approvals/{provider}/hash/{hash}", approvalHandler.Get)

	mux.HandleFunc("PUT /access", accessHandler.Set)
	mux.HandleFunc("GET /access", accessHandler.List)
	mux.HandleFunc("GET /access/{grantee}/hash/{hash}", accessHandler.Get)

	mux.HandleFunc("PUT /enclave-access", enclaveHandler.Set)
	mux.HandleFunc("GET /enclave-access/{owner}/hash/{hash}", enclaveHandler.Get)

	return mux
}
