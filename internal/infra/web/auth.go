package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errNoCredentials  = errors.New("no credentials presented")
	errInvalidSession = errors.New("invalid session token")
)

const sessionCookie = "subtrack_session"

// AuthManager accepts two credential forms: the configured API key sent
// as a bearer token (scripts, curl), and short-lived HMAC-signed session
// tokens minted from that key (the browser UI). Sessions ride in an
// HttpOnly cookie so the frontend never has to hold the key itself.
type AuthManager struct {
	apiKey     string
	hmacSecret []byte
	ttl        time.Duration
	secure     bool
}

func NewAuthManager(apiKey, secret string, secure bool, ttl time.Duration) *AuthManager {
	return &AuthManager{
		apiKey:     apiKey,
		hmacSecret: []byte(secret),
		ttl:        ttl,
		secure:     secure,
	}
}

// VerifyKey reports whether k matches the configured API key. An empty
// configured key matches nothing, so auth cannot be silently disabled by
// a missing config value.
func (a *AuthManager) VerifyKey(k string) bool {
	if a.apiKey == "" || k == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(k), []byte(a.apiKey)) == 1
}

// Mint signs a fresh session token and installs it as the session cookie.
func (a *AuthManager) Mint(w http.ResponseWriter) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "subtrack",
		Subject:   "owner",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.hmacSecret)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, a.cookie(signed, int(a.ttl.Seconds())))
	return signed, nil
}

// Clear expires the session cookie.
func (a *AuthManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie("", -1))
}

func (a *AuthManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Authenticate admits the request when it carries the API key or a valid
// session. A bearer header is tried as the key first and as a session
// token second; the cookie covers browser requests with no header.
func (a *AuthManager) Authenticate(r *http.Request) error {
	if tok := bearerToken(r); tok != "" {
		if a.VerifyKey(tok) {
			return nil
		}
		return a.verifySession(tok)
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return a.verifySession(c.Value)
	}
	return errNoCredentials
}

func (a *AuthManager) verifySession(tok string) error {
	parsed, err := jwt.ParseWithClaims(tok, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return a.hmacSecret, nil
	})
	if err != nil || !parsed.Valid {
		return errInvalidSession
	}
	return nil
}

func bearerToken(r *http.Request) string {
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return ""
	}
	return strings.TrimSpace(hdr[7:])
}
