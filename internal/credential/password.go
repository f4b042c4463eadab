package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/evgeniy-krivenko/notes-api/internal/entity"
)

func (s *Service) HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", entity.NewValidationError("user", "password", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.opts.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", entity.NewValidationError("user", "password", "is too long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether plain matches hash. A malformed hash
// is treated as a mismatch.
func (s *Service) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
