package auth

import "golang.org/x/crypto/bcrypt"

// GeneratePasswordHash hashes a plaintext password with bcrypt. The salt
// is generated per call, so hashing the same password twice yields two
// different strings that both verify.
func GeneratePasswordHash(password string, cost int) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// ComparePasswordHash checks a plaintext password against a stored bcrypt
// hash. A mismatch is reported as false, not as an error; the comparison
// inside bcrypt is constant-time.
func ComparePasswordHash(hashedPassword []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password)) == nil
}
