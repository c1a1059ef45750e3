package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/amrowe/gtdhub/internal/apperrors"
	"github.com/amrowe/gtdhub/internal/models"
	"github.com/amrowe/gtdhub/internal/store"
)

// Auth handles registration, login, token refresh and Google sign-in
type Auth struct {
	users    store.UserStore
	issuer   *TokenIssuer
	verifier IdentityVerifier
}

// NewAuth creates a new Auth instance. verifier may be nil when federated
// sign-in is not configured.
func NewAuth(users store.UserStore, issuer *TokenIssuer, verifier IdentityVerifier) *Auth {
	return &Auth{users: users, issuer: issuer, verifier: verifier}
}

// Register creates a new user account with a password credential
func (a *Auth) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	_, err := a.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict("email already registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	hashStr := string(hash)

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: &hashStr,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// Login verifies the password credential and issues a token pair
func (a *Auth) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("incorrect email or password")
	}
	if user.PasswordHash == nil {
		// Federated-identity-only account
		return nil, apperrors.Unauthorized("incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("incorrect email or password")
	}
	pair, err := a.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return pair, nil
}

// Refresh validates a refresh-purpose token and rotates the token pair
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	userID, err := a.issuer.Validate(refreshToken, PurposeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}
	pair, err := a.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return pair, nil
}

// GoogleSignIn verifies a Google ID token and finds or creates the matching
// user, linking the Google subject id to an existing account when the email
// already exists. A token pair is issued for the resulting user.
func (a *Auth) GoogleSignIn(ctx context.Context, credential string) (*models.TokenPair, error) {
	if a.verifier == nil {
		return nil, apperrors.Unauthorized("google sign-in is not configured")
	}
	identity, err := a.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid google token")
	}

	user, err := a.users.GetUserByGoogleID(ctx, identity.Subject)
	if errors.Is(err, store.ErrNotFound) {
		user, err = a.findOrCreateByEmail(ctx, identity)
	}
	if err != nil {
		return nil, apperrors.From(err)
	}

	pair, err := a.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return pair, nil
}

func (a *Auth) findOrCreateByEmail(ctx context.Context, identity *Identity) (*models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, identity.Email)
	if err == nil {
		// Link the existing account with Google
		user.GoogleID = &identity.Subject
		user.UpdatedAt = time.Now().UTC()
		if err := a.users.UpdateUser(ctx, user); err != nil {
			return nil, apperrors.Internal(err)
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	user = &models.User{
		ID:        uuid.New().String(),
		Email:     identity.Email,
		Name:      identity.Name,
		GoogleID:  &identity.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// GetUserByID loads a user by id, mapping absence to Unauthorized since this
// is only used to resolve authenticated callers.
func (a *Auth) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := a.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}
	return user, nil
}
