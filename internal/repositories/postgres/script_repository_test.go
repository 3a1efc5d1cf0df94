package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

var (
	testHashOne = strings.Repeat("11", 32)
	testHashTwo = strings.Repeat("22", 32)
)

func testScript(owner, name, version, hash string) *entities.Script {
	return &entities.Script{
		Owner:       owner,
		Name:        name,
		Version:     version,
		Description: "test script",
		Hash:        hash,
		URL:         "http://example.com",
	}
}

func TestPostgresScriptRepository_CreateAndLookup(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	repo := NewPostgresScriptRepository(db)

	id, err := repo.Create(ctx, testScript("alice", "script1", "v1", testHashOne))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byKey, err := repo.GetByKey(ctx, "alice", "script1", "v1")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	byHash, err := repo.GetByHash(ctx, testHashOne)
	if err != nil {
		t.Fatalf("GetByHash() error = %v", err)
	}
	if byKey.ID != id || byHash.ID != id {
		t.Errorf("lookups returned ids %d and %d, want %d", byKey.ID, byHash.ID, id)
	}

	if _, err := repo.Create(ctx, testScript("alice", "script1", "v1", testHashTwo)); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Create() with key clash error = %v, want ErrDuplicate", err)
	}
	if _, err := repo.Create(ctx, testScript("bob", "other", "v1", testHashOne)); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Create() with hash clash error = %v, want ErrDuplicate", err)
	}
}

func TestPostgresScriptRepository_ApprovalLock(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	scripts := NewPostgresScriptRepository(db)
	approvals := NewPostgresApprovalRepository(db)

	id, err := scripts.Create(ctx, testScript("alice", "script1", "v1", testHashOne))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := approvals.Set(ctx, "bob", id, true); err != nil {
		t.Fatalf("Set(true) error = %v", err)
	}
	if err := scripts.Update(ctx, testScript("alice", "script1", "v1", testHashTwo)); !errors.Is(err, repositories.ErrLocked) {
		t.Errorf("Update() on approved script error = %v, want ErrLocked", err)
	}
	if err := scripts.Delete(ctx, "alice", "script1", "v1"); !errors.Is(err, repositories.ErrLocked) {
		t.Errorf("Delete() on approved script error = %v, want ErrLocked", err)
	}

	if err := approvals.Set(ctx, "bob", id, false); err != nil {
		t.Fatalf("Set(false) error = %v", err)
	}
	if err := scripts.Update(ctx, testScript("alice", "script1", "v1", testHashTwo)); err != nil {
		t.Errorf("Update() after denial error = %v", err)
	}
	if err := scripts.Delete(ctx, "alice", "script1", "v1"); err != nil {
		t.Errorf("Delete() after denial error = %v", err)
	}
}

func TestPostgresApprovalRepository_Idempotent(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	scripts := NewPostgresScriptRepository(db)
	approvals := NewPostgresApprovalRepository(db)

	id, err := scripts.Create(ctx, testScript("alice", "script1", "v1", testHashOne))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := approvals.Set(ctx, "bob", id, true); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	script, err := scripts.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if script.ApprovesCount != 1 {
		t.Errorf("ApprovesCount after double approve = %d, want 1", script.ApprovesCount)
	}
}

func TestPostgresCascadeRepository_PurgeProvider(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	scripts := NewPostgresScriptRepository(db)
	providers := NewPostgresProviderRepository(db)
	approvals := NewPostgresApprovalRepository(db)
	cascades := NewPostgresCascadeRepository(db)

	for _, p := range []string{"alice", "bob"} {
		if err := providers.Create(ctx, &entities.Provider{Name: p}); err != nil {
			t.Fatalf("Create(%s) error = %v", p, err)
		}
	}
	id, err := scripts.Create(ctx, testScript("alice", "script1", "v1", testHashOne))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := approvals.Set(ctx, "bob", id, true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := cascades.PurgeProvider(ctx, "bob"); err != nil {
		t.Fatalf("PurgeProvider() error = %v", err)
	}

	script, err := scripts.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if script.ApprovesCount != 0 {
		t.Errorf("ApprovesCount after cascade = %d, want 0", script.ApprovesCount)
	}
	if _, err := approvals.Get(ctx, "bob", id); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("approval survived cascade: %v", err)
	}
	if _, err := providers.Get(ctx, "bob"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("provider survived cascade: %v", err)
	}
}

func TestPostgresEnclaveAccessRepository_MergesPermissions(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	ctx := context.Background()
	scripts := NewPostgresScriptRepository(db)
	enclaves := NewPostgresEnclaveAccessRepository(db)

	id, err := scripts.Create(ctx, testScript("alice", "script1", "v1", testHashOne))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := enclaves.SetPermission(ctx, "enclave1", id, "g1", true); err != nil {
		t.Fatalf("SetPermission(g1) error = %v", err)
	}
	if err := enclaves.SetPermission(ctx, "enclave1", id, "g2", true); err != nil {
		t.Fatalf("SetPermission(g2) error = %v", err)
	}
	if err := enclaves.SetPermission(ctx, "enclave1", id, "g1", false); err != nil {
		t.Fatalf("SetPermission(g1=false) error = %v", err)
	}

	entry, err := enclaves.Get(ctx, "enclave1", id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if granted, ok := entry.Permission("g1"); !ok || granted {
		t.Errorf("Permission(g1) = (%v, %v), want (false, true)", granted, ok)
	}
	if granted, ok := entry.Permission("g2"); !ok || !granted {
		t.Errorf("Permission(g2) = (%v, %v), want (true, true)", granted, ok)
	}
}
