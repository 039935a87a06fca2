package auth

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used in production. Tests pass a
// lower cost to keep hashing fast.
const DefaultCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of the plaintext password. The salt
// is generated per call and embedded in the output.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. A wrong password is a false return, not an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
