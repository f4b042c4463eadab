// Package credential hashes passwords and issues the bearer tokens
// that identify users to the API.
package credential

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/evgeniy-krivenko/notes-api/pkg/validatex"
)

type Options struct {
	Secret     []byte        `validate:"required"`
	TokenTTL   time.Duration `validate:"min=0"`
	BcryptCost int           `validate:"omitempty,min=4,max=31"`

	// Now is used to stamp tokens. Defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	opts Options
}

func New(opts Options) (*Service, error) {
	if err := validatex.Struct(opts); err != nil {
		return nil, fmt.Errorf("validate credential options: %v", err)
	}

	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{opts: opts}, nil
}
