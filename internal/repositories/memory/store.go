// Package memory provides in-process implementations of the repository
// interfaces. All repositories share one Store guarded by a single mutex,
// so every operation (including the provider deregistration cascade) is
// one atomic unit. Intended for tests and local development.
package memory

import (
	"sync"

	"github.com/aggregion/dmp-registry/internal/entities"
)

// Store holds all registry tables. It is safe for concurrent use.
// Obtain typed repositories through the accessor methods.
type Store struct {
	mu sync.RWMutex

	nextScriptID uint64
	scripts      map[uint64]*entities.Script
	scriptByKey  map[string]uint64 // (owner,name,version) -> id
	scriptByHash map[string]uint64 // content hash -> id

	providers map[string]*entities.Provider
	services  map[string]map[string]*entities.Service           // provider -> name
	trusts    map[string]map[string]*entities.TrustRelation     // truster -> trustee
	approvals map[string]map[uint64]*entities.ExecutionApproval // provider -> script id
	accesses  map[string]map[uint64]*entities.AccessGrant       // grantee -> script id
	enclaves  map[string]map[uint64]*entities.EnclaveAccess     // enclave owner -> script id
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nextScriptID: 1,
		scripts:      make(map[uint64]*entities.Script),
		scriptByKey:  make(map[string]uint64),
		scriptByHash: make(map[string]uint64),
		providers:    make(map[string]*entities.Provider),
		services:     make(map[string]map[string]*entities.Service),
		trusts:       make(map[string]map[string]*entities.TrustRelation),
		approvals:    make(map[string]map[uint64]*entities.ExecutionApproval),
		accesses:     make(map[string]map[uint64]*entities.AccessGrant),
		enclaves:     make(map[string]map[uint64]*entities.EnclaveAccess),
	}
}

// Scripts returns the script repository backed by this store.
func (s *Store) Scripts() *ScriptStore { return &ScriptStore{store: s} }

// Providers returns the provider repository backed by this store.
func (s *Store) Providers() *ProviderStore { return &ProviderStore{store: s} }

// Services returns the service repository backed by this store.
func (s *Store) Services() *ServiceStore { return &ServiceStore{store: s} }

// Trusts returns the trust repository backed by this store.
func (s *Store) Trusts() *TrustStore { return &TrustStore{store: s} }

// Approvals returns the approval repository backed by this store.
func (s *Store) Approvals() *ApprovalStore { return &ApprovalStore{store: s} }

// Accesses returns the access grant repository backed by this store.
func (s *Store) Accesses() *AccessStore { return &AccessStore{store: s} }

// Enclaves returns the enclave access repository backed by this store.
func (s *Store) Enclaves() *EnclaveStore { return &EnclaveStore{store: s} }

// Cascades returns the cascade repository backed by this store.
func (s *Store) Cascades() *CascadeStore { return &CascadeStore{store: s} }

func versionKey(owner, name, version string) string {
	return owner + "\x00" + name + "\x00" + version
}
