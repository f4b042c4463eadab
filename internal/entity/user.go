package entity

type User struct {
	ID           string
	Username     string `validate:"required"`
	Name         string `validate:"required"`
	PasswordHash string `validate:"required"`
	Notes        []string
}

func (u User) Validate() error {
	return validate("user", u)
}
