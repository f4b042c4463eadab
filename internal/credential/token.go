package credential

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// IssueToken signs a token for the user. Tokens never expire unless
// a TTL is configured.
func (s *Service) IssueToken(user entity.User) (string, error) {
	now := s.opts.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:   user.ID,
		Username: user.Username,
	}
	if s.opts.TokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.opts.TokenTTL))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// VerifyToken returns the user id carried by a valid token.
func (s *Service) VerifyToken(token string) (string, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return s.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.opts.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrTokenInvalid, err)
	}

	if !parsed.Valid || claims.UserID == "" {
		return "", entity.ErrTokenInvalid
	}

	return claims.UserID, nil
}
