package oauth

import (
	"context"
	"encoding/json"
)

// Profile is a provider identity normalized across providers.
type Profile struct {
	ProviderUserID string
	Email          string
	DisplayName    string
	AvatarURL      string
	Raw            json.RawMessage
}

// Provider is one federated identity source.
type Provider interface {
	Name() string

	// AuthCodeURL builds the provider authorize URL the client is
	// redirected to when no code is present. The flow carries no state
	// parameter.
	AuthCodeURL() string

	// Authenticate exchanges the authorization code and fetches the
	// provider profile.
	Authenticate(ctx context.Context, code string) (*Profile, error)
}
