package entities

import "fmt"

// Provider represents a registered service provider.
// Providers publish scripts, approve or deny their execution, and
// grant access to them. Every scoped record in the registry is keyed
// by a provider name.
type Provider struct {
	Name        string
	Description string
}

// Validate checks if the provider is valid
func (p *Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	return nil
}

// Service represents a network service exposed by a provider.
// Scope: provider.
type Service struct {
	Provider    string
	Name        string
	Description string
	Protocol    string
	Type        string
	Endpoint    string
}

// Validate checks if the service is valid
func (s *Service) Validate() error {
	if s.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if s.Name == "" {
		return fmt.Errorf("service name is required")
	}
	return nil
}
