package service

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed per deployment; raising it only affects newly
// created hashes.
const bcryptCost = 12

func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// Malformed hashes verify false; they never surface as errors.
func VerifyPassword(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
