package entities

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the size of a script content digest in bytes (256 bits).
const HashSize = 32

// Script represents a published script version.
// A script is addressable two ways: by its (owner, name, version) key,
// and by the content hash supplied at publish time.
type Script struct {
	ID            uint64
	Owner         string // provider that published the script
	Name          string
	Version       string
	Description   string
	Hash          string // hex-encoded content digest, unique across the registry
	URL           string
	ApprovesCount int64 // maintained by the approval ledger, never set directly
}

// Key returns a string representation of the version key
// Format: owner/name@version
func (s *Script) Key() string {
	return fmt.Sprintf("%s/%s@%s", s.Owner, s.Name, s.Version)
}

// Approved reports whether any provider currently approves this script.
// An approved script cannot be updated or removed.
func (s *Script) Approved() bool {
	return s.ApprovesCount > 0
}

// Validate checks if the script is valid
func (s *Script) Validate() error {
	if s.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Version == "" {
		return fmt.Errorf("version is required")
	}
	if err := ValidateHash(s.Hash); err != nil {
		return err
	}
	return nil
}

// ValidateHash checks that hash is a hex-encoded 256-bit digest
func ValidateHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("hash is required")
	}
	raw, err := hex.DecodeString(hash)
	if err != nil {
		return fmt.Errorf("hash must be hex encoded: %w", err)
	}
	if len(raw) != HashSize {
		return fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(raw))
	}
	return nil
}
