package handlers

import (
	"context"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/services"
)

// Mock ScriptService
type mockScriptService struct {
	addScriptFunc    func(ctx context.Context, caller string, script *entities.Script) (uint64, error)
	updateScriptFunc func(ctx context.Context, caller string, script *entities.Script) error
	removeScriptFunc func(ctx context.Context, caller, owner, name, version string) error
	getByKeyFunc     func(ctx context.Context, owner, name, version string) (*entities.Script, error)
	getByHashFunc    func(ctx context.Context, hash string) (*entities.Script, error)
	listByOwnerFunc  func(ctx context.Context, owner string) ([]*entities.Script, error)
}

func (m *mockScriptService) AddScript(ctx context.Context, caller string, script *entities.Script) (uint64, error) {
	if m.addScriptFunc != nil {
		return m.addScriptFunc(ctx, caller, script)
	}
	return 1, nil
}

func (m *mockScriptService) UpdateScript(ctx context.Context, caller string, script *entities.Script) error {
	if m.updateScriptFunc != nil {
		return m.updateScriptFunc(ctx, caller, script)
	}
	return nil
}

func (m *mockScriptService) RemoveScript(ctx context.Context, caller, owner, name, version string) error {
	if m.removeScriptFunc != nil {
		return m.removeScriptFunc(ctx, caller, owner, name, version)
	}
	return nil
}

func (m *mockScriptService) GetByKey(ctx context.Context, owner, name, version string) (*entities.Script, error) {
	if m.getByKeyFunc != nil {
		return m.getByKeyFunc(ctx, owner, name, version)
	}
	return &entities.Script{}, nil
}

func (m *mockScriptService) GetByHash(ctx context.Context, hash string) (*entities.Script, error) {
	if m.getByHashFunc != nil {
		return m.getByHashFunc(ctx, hash)
	}
	return &entities.Script{}, nil
}

func (m *mockScriptService) ListByOwner(ctx context.Context, owner string) ([]*entities.Script, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, owner)
	}
	return nil, nil
}

// Mock ProviderService
type mockProviderService struct {
	registerFunc          func(ctx context.Context, caller string, provider *entities.Provider) error
	updateDescriptionFunc func(ctx context.Context, caller, name, description string) error
	deregisterFunc        func(ctx context.Context, caller, name string) error
	getFunc               func(ctx context.Context, name string) (*entities.Provider, error)
	listFunc              func(ctx context.Context) ([]*entities.Provider, error)
	addServiceFunc        func(ctx context.Context, caller string, service *entities.Service) error
	updateServiceFunc     func(ctx context.Context, caller string, service *entities.Service) error
	removeServiceFunc     func(ctx context.Context, caller, provider, name string) error
	listServicesFunc      func(ctx context.Context, provider string) ([]*entities.Service, error)
}

func (m *mockProviderService) Register(ctx context.Context, caller string, provider *entities.Provider) error {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, caller, provider)
	}
	return nil
}

func (m *mockProviderService) UpdateDescription(ctx context.Context, caller, name, description string) error {
	if m.updateDescriptionFunc != nil {
		return m.updateDescriptionFunc(ctx, caller, name, description)
	}
	return nil
}

func (m *mockProviderService) Deregister(ctx context.Context, caller, name string) error {
	if m.deregisterFunc != nil {
		return m.deregisterFunc(ctx, caller, name)
	}
	return nil
}

func (m *mockProviderService) Get(ctx context.Context, name string) (*entities.Provider, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, name)
	}
	return &entities.Provider{Name: name}, nil
}

func (m *mockProviderService) List(ctx context.Context) ([]*entities.Provider, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProviderService) AddService(ctx context.Context, caller string, service *entities.Service) error {
	if m.addServiceFunc != nil {
		return m.addServiceFunc(ctx, caller, service)
	}
	return nil
}

func (m *mockProviderService) UpdateService(ctx context.Context, caller string, service *entities.Service) error {
	if m.updateServiceFunc != nil {
		return m.updateServiceFunc(ctx, caller, service)
	}
	return nil
}

func (m *mockProviderService) RemoveService(ctx context.Context, caller, provider, name string) error {
	if m.removeServiceFunc != nil {
		return m.removeServiceFunc(ctx, caller, provider, name)
	}
	return nil
}

func (m *mockProviderService) ListServices(ctx context.Context, provider string) ([]*entities.Service, error) {
	if m.listServicesFunc != nil {
		return m.listServicesFunc(ctx, provider)
	}
	return nil, nil
}

// Mock TrustService
type mockTrustService struct {
	setTrustFunc      func(ctx context.Context, caller, truster, trustee string, trust bool) error
	getTrustFunc      func(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error)
	listByTrusterFunc func(ctx context.Context, truster string) ([]*entities.TrustRelation, error)
}

func (m *mockTrustService) SetTrust(ctx context.Context, caller, truster, trustee string, trust bool) error {
	if m.setTrustFunc != nil {
		return m.setTrustFunc(ctx, caller, truster, trustee, trust)
	}
	return nil
}

func (m *mockTrustService) GetTrust(ctx context.Context, truster, trustee string) (*entities.TrustRelation, error) {
	if m.getTrustFunc != nil {
		return m.getTrustFunc(ctx, truster, trustee)
	}
	return &entities.TrustRelation{Truster: truster, Trustee: trustee}, nil
}

func (m *mockTrustService) ListByTruster(ctx context.Context, truster string) ([]*entities.TrustRelation, error) {
	if m.listByTrusterFunc != nil {
		return m.listByTrusterFunc(ctx, truster)
	}
	return nil, nil
}

// Mock ApprovalService
type mockApprovalService struct {
	setApprovalFunc    func(ctx context.Context, caller, provider, hash string, approved bool) error
	getApprovalFunc    func(ctx context.Context, provider, hash string) (*entities.ExecutionApproval, error)
	listByProviderFunc func(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error)
}

func (m *mockApprovalService) SetApproval(ctx context.Context, caller, provider, hash string, approved bool) error {
	if m.setApprovalFunc != nil {
		return m.setApprovalFunc(ctx, caller, provider, hash, approved)
	}
	return nil
}

func (m *mockApprovalService) GetApproval(ctx context.Context, provider, hash string) (*entities.ExecutionApproval, error) {
	if m.getApprovalFunc != nil {
		return m.getApprovalFunc(ctx, provider, hash)
	}
	return &entities.ExecutionApproval{Provider: provider}, nil
}

func (m *mockApprovalService) ListByProvider(ctx context.Context, provider string) ([]*entities.ExecutionApproval, error) {
	if m.listByProviderFunc != nil {
		return m.listByProviderFunc(ctx, provider)
	}
	return nil, nil
}

// Mock AccessService
type mockAccessService struct {
	setAccessFunc     func(ctx context.Context, caller, owner, hash, grantee string, granted bool) error
	getAccessFunc     func(ctx context.Context, grantee, hash string) (*entities.AccessGrant, error)
	listByGranteeFunc func(ctx context.Context, grantee string) ([]*entities.AccessGrant, error)
}

func (m *mockAccessService) SetAccess(ctx context.Context, caller, owner, hash, grantee string, granted bool) error {
	if m.setAccessFunc != nil {
		return m.setAccessFunc(ctx, caller, owner, hash, grantee, granted)
	}
	return nil
}

func (m *mockAccessService) GetAccess(ctx context.Context, grantee, hash string) (*entities.AccessGrant, error) {
	if m.getAccessFunc != nil {
		return m.getAccessFunc(ctx, grantee, hash)
	}
	return &entities.AccessGrant{Grantee: grantee}, nil
}

func (m *mockAccessService) ListByGrantee(ctx context.Context, grantee string) ([]*entities.AccessGrant, error) {
	if m.listByGranteeFunc != nil {
		return m.listByGranteeFunc(ctx, grantee)
	}
	return nil, nil
}

// Mock EnclaveService
type mockEnclaveService struct {
	setEnclaveAccessFunc     func(ctx context.Context, caller, enclaveOwner, hash, grantee string, granted bool) error
	getEnclaveAccessFunc     func(ctx context.Context, enclaveOwner, hash string) (*entities.EnclaveAccess, error)
	getEnclavePermissionFunc func(ctx context.Context, enclaveOwner, hash, grantee string) (*services.EnclavePermission, error)
}

func (m *mockEnclaveService) SetEnclaveAccess(ctx context.Context, caller, enclaveOwner, hash, grantee string, granted bool) error {
	if m.setEnclaveAccessFunc != nil {
		return m.setEnclaveAccessFunc(ctx, caller, enclaveOwner, hash, grantee, granted)
	}
	return nil
}

func (m *mockEnclaveService) GetEnclaveAccess(ctx context.Context, enclaveOwner, hash string) (*entities.EnclaveAccess, error) {
	if m.getEnclaveAccessFunc != nil {
		return m.getEnclaveAccessFunc(ctx, enclaveOwner, hash)
	}
	return &entities.EnclaveAccess{Owner: enclaveOwner}, nil
}

func (m *mockEnclaveService) GetEnclavePermission(ctx context.Context, enclaveOwner, hash, grantee string) (*services.EnclavePermission, error) {
	if m.getEnclavePermissionFunc != nil {
		return m.getEnclavePermissionFunc(ctx, enclaveOwner, hash, grantee)
	}
	return &services.EnclavePermission{}, nil
}
