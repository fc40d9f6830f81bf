package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"centinela/contexts/field-operations/witness-assignment/ports"
)

// BcryptHasher hashes witness passwords with bcrypt at the default cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash.
func (h BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var _ ports.PasswordHasher = BcryptHasher{}
