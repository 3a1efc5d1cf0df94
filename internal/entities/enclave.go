package entities

import "fmt"

// EnclaveAccess is an enclave owner's permission map over a script.
// Unlike AccessGrant, the enclave owner need not own the script: any
// provider may define its own enclave policy over any existing script.
// One row per (owner, script) holds permissions for many grantees;
// grantees absent from the map have no stance recorded.
// Scope: enclave owner.
type EnclaveAccess struct {
	Owner       string
	ScriptID    uint64
	Permissions map[string]bool // grantee -> granted
}

// Permission returns the recorded stance for a grantee.
// The second return value is false when no stance is recorded.
func (e *EnclaveAccess) Permission(grantee string) (bool, bool) {
	granted, ok := e.Permissions[grantee]
	return granted, ok
}

// SetPermission records a stance for a grantee, leaving other grantees untouched.
func (e *EnclaveAccess) SetPermission(grantee string, granted bool) {
	if e.Permissions == nil {
		e.Permissions = make(map[string]bool)
	}
	e.Permissions[grantee] = granted
}

// Validate checks if the enclave access entry is valid
func (e *EnclaveAccess) Validate() error {
	if e.Owner == "" {
		return fmt.Errorf("enclave owner is required")
	}
	if e.ScriptID == 0 {
		return fmt.Errorf("script ID is required")
	}
	return nil
}
