package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"planie.app/api/core/config"
)

const clockSkew = 30 * time.Second

// JWTResolver verifies HS256 session tokens sent as a bearer token or in the
// session cookie. The subject claim is the user id.
type JWTResolver struct {
	secret     []byte
	cookieName string
	parser     *jwt.Parser
}

func NewJWTResolver(cfg config.AuthConfig) *JWTResolver {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTResolver{
		secret:     []byte(cfg.JWTSecret),
		cookieName: cfg.CookieName,
		parser:     jwt.NewParser(opts...),
	}
}

func (r *JWTResolver) Resolve(req *http.Request) (Identity, error) {
	raw := r.tokenFrom(req)
	if raw == "" {
		return Identity{}, ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	token, err := r.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrUnauthenticated)
	}

	return Identity{UserID: claims.Subject}, nil
}

func (r *JWTResolver) tokenFrom(req *http.Request) string {
	if header := req.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if r.cookieName == "" {
		return ""
	}
	cookie, err := req.Cookie(r.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
