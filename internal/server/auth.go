package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// identity is the authenticated caller of a request.
type identity struct {
	ID    string
	Email string
}

var errNoSession = errors.New("no valid session")

// Auth signs and verifies the bearer tokens that identify callers.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl}
}

func (a *Auth) Sign(u User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(a.ttl).Unix(),
	})
	return token.SignedString(a.secret)
}

func (a *Auth) Parse(raw string) (identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return identity{}, errNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity{}, errNoSession
	}
	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	if id == "" {
		return identity{}, errNoSession
	}
	return identity{ID: id, Email: email}, nil
}

// identityFromRequest resolves the Authorization header to an identity.
func identityFromRequest(r *http.Request, a *Auth) (identity, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return identity{}, errNoSession
	}
	return a.Parse(token)
}
