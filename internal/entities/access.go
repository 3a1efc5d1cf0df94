package entities

import "fmt"

// AccessGrant is an owner-issued permission for a grantee to use a script.
// One row per (grantee, script); only the script's owner may set it.
// Scope: grantee.
type AccessGrant struct {
	Grantee  string
	ScriptID uint64
	Granted  bool
}

// Validate checks if the access grant is valid
func (g *AccessGrant) Validate() error {
	if g.Grantee == "" {
		return fmt.Errorf("grantee is required")
	}
	if g.ScriptID == 0 {
		return fmt.Errorf("script ID is required")
	}
	return nil
}
