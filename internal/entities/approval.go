package entities

import "fmt"

// ExecutionApproval is a provider's approve/deny stance on a script.
// One row per (provider, script); the script's ApprovesCount must equal
// the number of approvals with Approved == true at all times.
// Scope: approving provider.
type ExecutionApproval struct {
	Provider string
	ScriptID uint64
	Approved bool
}

// Validate checks if the approval is valid
func (a *ExecutionApproval) Validate() error {
	if a.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if a.ScriptID == 0 {
		return fmt.Errorf("script ID is required")
	}
	return nil
}
