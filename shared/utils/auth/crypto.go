package utils

import (
	"golang.org/x/crypto/bcrypt"

	"ngoconnect-backend/shared/config"
)

// HashPassword generates a bcrypt hash of the password. The cost factor
// comes from configuration; salt and cost are encoded in the output so
// verification needs nothing beyond the hash itself.
func HashPassword(password string) (string, error) {
	cost := config.GetConfig().GetBcryptCost()
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash. bcrypt's compare is
// constant-time over the derived key.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
