// Package session issues and resolves the signed cookie that carries a
// signed-in user's identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"blog/internal/config"
	"blog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	issuer   = "blog"
	audience = "blog-web"

	revokedKeyPrefix = "session:revoked:"
)

// ErrNoSecret is returned when the manager has no signing secret.
var ErrNoSecret = errors.New("session secret not configured")

// Manager signs session tokens and keeps the revocation list.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	redis      *redis.Client
	now        func() time.Time
}

// NewManager builds a Manager from configuration. rdb may be nil, in which case
// logout only clears the cookie.
func NewManager(cfg *config.Config, rdb *redis.Client) *Manager {
	name := cfg.SessionCookie
	if name == "" {
		name = "blog_session"
	}
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(cfg.SessionSecret),
		cookieName: name,
		ttl:        ttl,
		secure:     cfg.CookieSecure,
		redis:      rdb,
		now:        time.Now,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue signs a token for userID and returns it with its expiry.
func (m *Manager) Issue(userID uint) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": issuer,
		"aud": audience,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Resolve returns the user ID carried by token. Any defect in the token, or a
// revocation check that cannot complete, resolves to anonymous.
func (m *Manager) Resolve(ctx context.Context, token string) (uint, bool) {
	if token == "" {
		return 0, false
	}

	claims, err := m.parse(token)
	if err != nil {
		return 0, false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return 0, false
	}
	if m.redis != nil {
		n, err := m.redis.Exists(ctx, revokedKeyPrefix+jti).Result()
		if err != nil {
			middleware.Logger.WarnContext(ctx, "session revocation check failed", slog.String("error", err.Error()))
			return 0, false
		}
		if n > 0 {
			return 0, false
		}
	}

	return uint(userID), true
}

// Revoke records token's ID as revoked until the token would have expired.
// Tokens that do not verify are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if m.redis == nil || token == "" {
		return nil
	}

	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	ttl := exp.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.redis.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Login issues a token for userID and stores it in the session cookie.
func (m *Manager) Login(c *fiber.Ctx, userID uint) error {
	token, expiresAt, err := m.Issue(userID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Logout revokes the request's session token and expires the cookie.
func (m *Manager) Logout(c *fiber.Ctx) error {
	err := m.Revoke(c.UserContext(), c.Cookies(m.cookieName))
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return err
}

// FromRequest resolves the session cookie on c.
func (m *Manager) FromRequest(c *fiber.Ctx) (uint, bool) {
	return m.Resolve(c.UserContext(), c.Cookies(m.cookieName))
}

func (m *Manager) parse(token string) (jwt.MapClaims, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSecret
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
