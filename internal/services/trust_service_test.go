package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aggregion/dmp-registry/internal/repositories"
)

func TestTrustService_SetTrust_Idempotent(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.registerProvider(t, "prov1")
	reg.registerProvider(t, "prov2")

	for i := 0; i < 2; i++ {
		if err := reg.trust.SetTrust(ctx, "prov1", "prov1", "prov2", true); err != nil {
			t.Fatalf("SetTrust() call %d error = %v", i+1, err)
		}
	}

	relations, err := reg.trust.ListByTruster(ctx, "prov1")
	if err != nil {
		t.Fatalf("ListByTruster() error = %v", err)
	}
	if len(relations) != 1 {
		t.Fatalf("ListByTruster() returned %d relations, want 1", len(relations))
	}
	if !relations[0].Trust {
		t.Error("stored relation Trust = false, want true")
	}
}

func TestTrustService_SetTrust_LastWriteWins(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.registerProvider(t, "prov1")
	reg.registerProvider(t, "prov2")

	if err := reg.trust.SetTrust(ctx, "prov1", "prov1", "prov2", true); err != nil {
		t.Fatalf("SetTrust(true) error = %v", err)
	}
	if err := reg.trust.SetTrust(ctx, "prov1", "prov1", "prov2", false); err != nil {
		t.Fatalf("SetTrust(false) error = %v", err)
	}

	relation, err := reg.trust.GetTrust(ctx, "prov1", "prov2")
	if err != nil {
		t.Fatalf("GetTrust() error = %v", err)
	}
	if relation.Trust {
		t.Error("relation Trust = true after distrust, want false")
	}
}

func TestTrustService_SetTrust_UnregisteredParty(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.registerProvider(t, "prov1")

	// Unregistered trustee
	err := reg.trust.SetTrust(ctx, "prov1", "prov1", "ghost", true)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("SetTrust() with unregistered trustee error = %v, want ErrNotFound", err)
	}

	// Unregistered truster
	err = reg.trust.SetTrust(ctx, "ghost", "ghost", "prov1", true)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("SetTrust() with unregistered truster error = %v, want ErrNotFound", err)
	}
}

func TestTrustService_SetTrust_CallerMismatch(t *testing.T) {
	reg := newTestRegistry(t)

	reg.registerProvider(t, "prov1")
	reg.registerProvider(t, "prov2")

	err := reg.trust.SetTrust(context.Background(), "prov2", "prov1", "prov2", true)
	if !errors.Is(err, repositories.ErrForbidden) {
		t.Errorf("SetTrust() as wrong caller error = %v, want ErrForbidden", err)
	}
}
