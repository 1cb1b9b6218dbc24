package utils

import "golang.org/x/crypto/bcrypt"

// BcryptCost is a variable so tests can lower it.
var BcryptCost = bcrypt.DefaultCost

// dummyHash is compared against when the account does not exist, so a miss
// costs the same as a wrong password.
var dummyHash = mustHash("not-a-real-password")

func mustHash(plain string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		panic("utils: build dummy bcrypt hash: " + err.Error())
	}
	return h
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches hash. An empty hash is checked
// against a dummy value and always fails.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
