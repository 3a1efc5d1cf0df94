package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories/memory"
	"github.com/aggregion/dmp-registry/pkg/cache/memorycache"
)

var (
	hashOne   = strings.Repeat("11", 32)
	hashTwo   = strings.Repeat("22", 32)
	hashThree = strings.Repeat("33", 32)
)

// registry bundles all services over a shared in-memory store.
type registry struct {
	store     *memory.Store
	scripts   *ScriptService
	trust     *TrustService
	approvals *ApprovalService
	access    *AccessService
	enclave   *EnclaveService
	providers *ProviderService
}

func newTestRegistry(t *testing.T) *registry {
	t.Helper()

	store := memory.New()
	auth := NewSelfAuthenticator()

	lookupCache, err := memorycache.New(&memorycache.Config{
		MaxSizeBytes: 1024 * 1024,
		DefaultTTL:   time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	scripts := NewScriptService(store.Scripts(), auth, lookupCache, time.Minute)

	return &registry{
		store:     store,
		scripts:   scripts,
		trust:     NewTrustService(store.Trusts(), store.Providers(), auth),
		approvals: NewApprovalService(store.Approvals(), store.Providers(), scripts, auth),
		access:    NewAccessService(store.Accesses(), store.Providers(), scripts, auth),
		enclave:   NewEnclaveService(store.Enclaves(), scripts, auth),
		providers: NewProviderService(store.Providers(), store.Services(), store.Cascades(), auth),
	}
}

func (r *registry) registerProvider(t *testing.T, name string) {
	t.Helper()
	err := r.providers.Register(context.Background(), name, &entities.Provider{
		Name:        name,
		Description: name + " description",
	})
	if err != nil {
		t.Fatalf("failed to register provider %s: %v", name, err)
	}
}

func (r *registry) addScript(t *testing.T, owner, name, version, hash string) uint64 {
	t.Helper()
	id, err := r.scripts.AddScript(context.Background(), owner, &entities.Script{
		Owner:       owner,
		Name:        name,
		Version:     version,
		Description: "test script",
		Hash:        hash,
		URL:         "https://example.com/" + name,
	})
	if err != nil {
		t.Fatalf("failed to add script %s/%s@%s: %v", owner, name, version, err)
	}
	return id
}

// approvesCount reads the counter fresh from the store, bypassing the
// lookup cache.
func (r *registry) approvesCount(t *testing.T, owner, name, version string) int64 {
	t.Helper()
	script, err := r.scripts.GetByKey(context.Background(), owner, name, version)
	if err != nil {
		t.Fatalf("failed to get script %s/%s@%s: %v", owner, name, version, err)
	}
	return script.ApprovesCount
}
