package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a password using bcrypt. Passwords are always
// hashed on write; plaintext never reaches the database.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
