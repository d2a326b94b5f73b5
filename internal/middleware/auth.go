// Package middleware provides request-scoped plumbing for the HTTP layer:
// session tokens, structured logging, metrics, tracing and rate limiting.
package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the cookie that carries the session token.
const SessionCookie = "jwt"

// SessionTTL is how long a session token and its cookie stay valid.
const SessionTTL = 15 * 24 * time.Hour

const (
	tokenIssuer   = "sportsync-api"
	tokenAudience = "sportsync-client"
)

// Token validation failures.
var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// SessionClaims is what a validated session token resolves to.
type SessionClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// IssueToken signs a session token for userID.
func IssueToken(secret string, userID uint, now time.Time) (string, SessionClaims, error) {
	if secret == "" {
		return "", SessionClaims{}, fmt.Errorf("JWT secret not configured")
	}

	claims := SessionClaims{
		UserID:    userID,
		JTI:       fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
		ExpiresAt: now.Add(SessionTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": claims.ExpiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": claims.JTI,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", SessionClaims{}, err
	}
	return signed, claims, nil
}

// ParseToken validates a session token and extracts its claims.
func ParseToken(secret, tokenString string) (SessionClaims, error) {
	if tokenString == "" {
		return SessionClaims{}, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return SessionClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return SessionClaims{}, ErrInvalidToken
	}

	out := SessionClaims{UserID: uint(userID)}
	if jti, ok := claims["jti"].(string); ok {
		out.JTI = jti
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// TokenFromRequest reads the session token from the cookie, falling back to
// an "Authorization: Bearer" header for non-browser clients.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionCookieFor builds the HttpOnly cookie carrying token.
func SessionCookieFor(token string, expires time.Time, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// ClearedSessionCookie expires the session cookie on the client.
func ClearedSessionCookie(secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
