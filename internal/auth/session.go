package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"donorconnect/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const (
	tokenIssuer = "donorconnect"

	claimEmail = "email"
	claimName  = "name"
	claimRole  = "role"

	minSecretLen = 32
)

// SessionConfig is built once at startup and handed to NewSessionManager.
type SessionConfig struct {
	Secret     []byte
	CookieName string
	MaxAge     time.Duration
	Secure     bool

	HashKey  []byte
	BlockKey []byte
}

// SessionManager issues signed session tokens and resolves them back from requests.
type SessionManager struct {
	config SessionConfig
	key    jwk.Key
	cookie *securecookie.SecureCookie
	now    func() time.Time
}

func NewSessionManager(config SessionConfig) (*SessionManager, error) {
	if len(config.Secret) < minSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLen)
	}

	if len(config.HashKey) == 0 {
		return nil, errors.New("cookie hash key is required")
	}

	if config.CookieName == "" {
		return nil, errors.New("cookie name is required")
	}

	if config.MaxAge <= 0 {
		return nil, errors.New("session max age must be positive")
	}

	key, err := jwk.Import(config.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to import session secret: %w", err)
	}

	var blockKey []byte
	if len(config.BlockKey) > 0 {
		blockKey = config.BlockKey
	}

	cookie := securecookie.New(config.HashKey, blockKey)
	cookie.MaxAge(int(config.MaxAge.Seconds()))

	return &SessionManager{
		config: config,
		key:    key,
		cookie: cookie,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the user and returns it with the session it encodes.
func (m *SessionManager) Issue(user *types.User) (string, *types.Session, error) {
	now := m.now()
	session := &types.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: now.Add(m.config.MaxAge).Truncate(time.Second),
	}

	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(user.ID).
		IssuedAt(now).
		Expiration(session.ExpiresAt).
		Claim(claimEmail, user.Email).
		Claim(claimName, user.Name).
		Claim(claimRole, string(user.Role)).
		Build()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return string(signed), session, nil
}

// Parse verifies a raw token and converts its claims into a session.
func (m *SessionManager) Parse(raw string) (*types.Session, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, errors.New("session token has no subject")
	}

	var email, name, role string
	if err := token.Get(claimEmail, &email); err != nil {
		return nil, fmt.Errorf("session token has no email: %w", err)
	}
	if err := token.Get(claimRole, &role); err != nil {
		return nil, fmt.Errorf("session token has no role: %w", err)
	}
	// name is display only
	_ = token.Get(claimName, &name)

	if !types.Role(role).Valid() {
		return nil, fmt.Errorf("session token has unknown role %q", role)
	}

	expiresAt, _ := token.Expiration()

	return &types.Session{
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      types.Role(role),
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve returns the session carried by the request. A missing, expired or
// tampered credential is reported as no session rather than an error.
func (m *SessionManager) Resolve(r *http.Request) (*types.Session, bool) {
	raw, ok := m.tokenFromRequest(r)
	if !ok {
		return nil, false
	}

	session, err := m.Parse(raw)
	if err != nil {
		return nil, false
	}

	return session, true
}

func (m *SessionManager) tokenFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), true
		}
	}

	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var token string
	if err := m.cookie.Decode(m.config.CookieName, cookie.Value, &token); err != nil {
		return "", false
	}

	return token, token != ""
}

func (m *SessionManager) SetCookie(w http.ResponseWriter, token string) error {
	encoded, err := m.cookie.Encode(m.config.CookieName, token)
	if err != nil {
		return fmt.Errorf("failed to encode session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.config.MaxAge.Seconds()),
		Path:     "/",
	})

	return nil
}

func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})
}

func (m *SessionManager) Secure() bool {
	return m.config.Secure
}
