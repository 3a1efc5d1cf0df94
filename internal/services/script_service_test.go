package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aggregion/dmp-registry/internal/entities"
	"github.com/aggregion/dmp-registry/internal/repositories"
)

func TestScriptService_AddAndLookupRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	id := reg.addScript(t, "prov1", "etl", "v1", hashOne)
	if id == 0 {
		t.Fatal("AddScript() returned zero id")
	}

	byKey, err := reg.scripts.GetByKey(ctx, "prov1", "etl", "v1")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	byHash, err := reg.scripts.GetByHash(ctx, hashOne)
	if err != nil {
		t.Fatalf("GetByHash() error = %v", err)
	}

	if byKey.ID != id || byHash.ID != id {
		t.Errorf("lookups disagree: byKey.ID=%d byHash.ID=%d want %d", byKey.ID, byHash.ID, id)
	}
	if byKey.ApprovesCount != 0 {
		t.Errorf("new script ApprovesCount = %d, want 0", byKey.ApprovesCount)
	}
}

func TestScriptService_AddScript_Duplicates(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.addScript(t, "prov1", "etl", "v1", hashOne)

	// Same version key, different content
	_, err := reg.scripts.AddScript(ctx, "prov1", &entities.Script{
		Owner: "prov1", Name: "etl", Version: "v1", Hash: hashTwo,
	})
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("duplicate key AddScript() error = %v, want ErrDuplicate", err)
	}

	// Different key, same content hash
	_, err = reg.scripts.AddScript(ctx, "prov2", &entities.Script{
		Owner: "prov2", Name: "other", Version: "v1", Hash: hashOne,
	})
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("duplicate hash AddScript() error = %v, want ErrDuplicate", err)
	}
}

func TestScriptService_AddScript_CallerMismatch(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.scripts.AddScript(context.Background(), "prov2", &entities.Script{
		Owner: "prov1", Name: "etl", Version: "v1", Hash: hashOne,
	})
	if !errors.Is(err, repositories.ErrForbidden) {
		t.Errorf("AddScript() as wrong caller error = %v, want ErrForbidden", err)
	}
}

func TestScriptService_UpdateScript(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.addScript(t, "prov1", "etl", "v1", hashOne)

	err := reg.scripts.UpdateScript(ctx, "prov1", &entities.Script{
		Owner: "prov1", Name: "etl", Version: "v1",
		Description: "updated", Hash: hashTwo, URL: "https://example.com/etl2",
	})
	if err != nil {
		t.Fatalf("UpdateScript() error = %v", err)
	}

	// Old hash no longer resolves, new one does
	if _, err := reg.scripts.GetByHash(ctx, hashOne); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("GetByHash(old) error = %v, want ErrNotFound", err)
	}
	script, err := reg.scripts.GetByHash(ctx, hashTwo)
	if err != nil {
		t.Fatalf("GetByHash(new) error = %v", err)
	}
	if script.Description != "updated" {
		t.Errorf("Description = %q, want %q", script.Description, "updated")
	}
}

func TestScriptService_UpdateScript_Missing(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.scripts.UpdateScript(context.Background(), "prov1", &entities.Script{
		Owner: "prov1", Name: "ghost", Version: "v1", Hash: hashOne,
	})
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("UpdateScript() of missing script error = %v, want ErrNotFound", err)
	}
}

func TestScriptService_RemoveScript_CacheInvalidated(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.addScript(t, "prov1", "etl", "v1", hashOne)

	// Warm the lookup cache
	if _, err := reg.scripts.GetByHash(ctx, hashOne); err != nil {
		t.Fatalf("GetByHash() error = %v", err)
	}

	if err := reg.scripts.RemoveScript(ctx, "prov1", "prov1", "etl", "v1"); err != nil {
		t.Fatalf("RemoveScript() error = %v", err)
	}

	// The cached entry must not survive removal
	if _, err := reg.scripts.GetByHash(ctx, hashOne); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("GetByHash() after removal error = %v, want ErrNotFound", err)
	}
}

func TestScriptService_ListByOwner(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.addScript(t, "prov1", "etl", "v1", hashOne)
	reg.addScript(t, "prov1", "etl", "v2", hashTwo)
	reg.addScript(t, "prov2", "report", "v1", hashThree)

	scripts, err := reg.scripts.ListByOwner(ctx, "prov1")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(scripts) != 2 {
		t.Errorf("ListByOwner(prov1) returned %d scripts, want 2", len(scripts))
	}
}
