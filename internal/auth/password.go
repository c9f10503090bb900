package auth

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// legacyDefaultIterations は反復回数が省略された旧形式ハッシュで使う値です。
const legacyDefaultIterations = 150000

// HashPassword はパスワードを bcrypt でハッシュ化します。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword は保存済みハッシュとパスワードを照合します。
// bcrypt に加えて、以前の環境で作られた "pbkdf2:sha256:<iter>$<salt>$<hex>" 形式も検証できます。
func CheckPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "pbkdf2:") {
		return checkPBKDF2(stored, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func checkPBKDF2(stored, password string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, expectedHex := parts[0], parts[1], parts[2]

	args := strings.Split(strings.TrimPrefix(method, "pbkdf2:"), ":")
	var newHash func() hash.Hash
	switch args[0] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return false
	}

	iterations := legacyDefaultIterations
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}

	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) == 0 {
		return false
	}
	derived := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), newHash)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
