package middleware

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/Nagraj-13/SocialConnect/internal/models"
	"github.com/Nagraj-13/SocialConnect/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned when a resolver cannot map a bearer token to
// a user.
var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityResolver maps a bearer token to the local user account. The rest
// of the application never talks to the identity provider directly.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// FirebaseResolver resolves Firebase ID tokens against the users table.
type FirebaseResolver struct {
	authClient *auth.Client
	userRepo   repositories.UserRepository
}

// NewFirebaseResolver creates a FirebaseResolver.
func NewFirebaseResolver(authClient *auth.Client, userRepo repositories.UserRepository) *FirebaseResolver {
	return &FirebaseResolver{authClient: authClient, userRepo: userRepo}
}

// Resolve verifies the ID token with Firebase and looks up the linked user.
func (r *FirebaseResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	decoded, err := r.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := r.userRepo.GetUserByFirebaseUID(decoded.UID)
	if err != nil {
		return nil, fmt.Errorf("authenticated user not found: %w", err)
	}
	return user, nil
}

// JWTResolver resolves locally issued HS256 tokens.
type JWTResolver struct {
	secret   []byte
	userRepo repositories.UserRepository
}

// NewJWTResolver creates a JWTResolver.
func NewJWTResolver(secret string, userRepo repositories.UserRepository) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), userRepo: userRepo}
}

// Resolve parses and validates the token, then loads the user row.
func (r *JWTResolver) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	user, err := r.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("authenticated user not found: %w", err)
	}
	return user, nil
}

// ChainResolver tries each resolver in order and returns the first success.
// Lets Firebase and local-JWT sessions coexist on one bearer header.
type ChainResolver struct {
	resolvers []IdentityResolver
}

// NewChainResolver creates a ChainResolver.
func NewChainResolver(resolvers ...IdentityResolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

// Resolve tries each resolver until one accepts the token.
func (r *ChainResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	var lastErr error = ErrInvalidToken
	for _, resolver := range r.resolvers {
		user, err := resolver.Resolve(ctx, token)
		if err == nil {
			return user, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
