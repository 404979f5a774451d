package helper

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Auth wraps the one-way credential hasher. Plaintext passwords exist
// only between the request body and these two calls.
type Auth struct{}

func SetupAuth() Auth {
	return Auth{}
}

func (a Auth) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword(
		[]byte(hashed),
		[]byte(plain),
	); err != nil {
		return errors.New("invalid email or password")
	}
	return nil
}
