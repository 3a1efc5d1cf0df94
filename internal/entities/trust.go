package entities

import "fmt"

// TrustRelation is a directed trust (or distrust) assertion from one
// provider to another. One relation per (truster, trustee) pair;
// last write wins.
// Scope: truster.
type TrustRelation struct {
	Truster string
	Trustee string
	Trust   bool
}

// String returns a string representation of the relation
// Format: truster->trustee=trust
func (t *TrustRelation) String() string {
	return fmt.Sprintf("%s->%s=%t", t.Truster, t.Trustee, t.Trust)
}

// Validate checks if the trust relation is valid
func (t *TrustRelation) Validate() error {
	if t.Truster == "" {
		return fmt.Errorf("truster is required")
	}
	if t.Trustee == "" {
		return fmt.Errorf("trustee is required")
	}
	return nil
}
