package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// Identity is the verified triple yielded by an external identity provider
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// IdentityVerifier validates a third-party identity credential
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// GoogleVerifier validates Google ID tokens against a client ID
type GoogleVerifier struct {
	clientID string
}

var _ IdentityVerifier = (*GoogleVerifier)(nil)

// NewGoogleVerifier creates a GoogleVerifier for the given OAuth client ID
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates the credential and extracts subject, email and name.
// Name falls back to the email local part when Google omits it.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("google token missing email claim")
	}
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = emailLocalPart(email)
	}

	return &Identity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}

func emailLocalPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
