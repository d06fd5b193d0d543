package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Verifier turns bearer tokens into capability checks.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Capabilities parses an HS256 token and returns a check over its
// permissions claim. Any parse or signature failure degrades to
// DenyAll; an unauthenticated caller is not an error.
func (v *Verifier) Capabilities(tokenString string) CapabilityFunc {
	if tokenString == "" || len(v.secret) == 0 {
		return DenyAll
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return DenyAll
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return DenyAll
	}
	raw, ok := claims["permissions"].([]interface{})
	if !ok {
		return DenyAll
	}

	granted := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		if s, ok := p.(string); ok {
			granted[s] = struct{}{}
		}
	}
	return func(permission string) bool {
		_, ok := granted[permission]
		return ok
	}
}

// KeyCheck compares a presented privileged key against the server-held
// bcrypt hash. An empty hash never matches anything.
type KeyCheck struct {
	hash string
}

func NewKeyCheck(hash string) KeyCheck {
	return KeyCheck{hash: hash}
}

func (k KeyCheck) Matches(key string) bool {
	if k.hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(k.hash), []byte(key)) == nil
}
