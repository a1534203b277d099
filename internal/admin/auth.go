package admin

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthProvider guards the admin screens. Login handles the submitted login
// form and starts a session on success.
type AuthProvider interface {
	Login(c *gin.Context) (bool, error)
	Logout(c *gin.Context)
	Authenticate(c *gin.Context) bool
}

const sessionCookie = "admin_session"

// PasswordAuth checks a single configured account against a bcrypt hash and
// keeps the session in an HS256 signed cookie.
type PasswordAuth struct {
	Username     string
	PasswordHash []byte
	Secret       []byte
	TTL          time.Duration
	CookiePath   string
}

// NewPasswordAuth creates a PasswordAuth with a 24 hour session
func NewPasswordAuth(username, passwordHash, secret string) *PasswordAuth {
	return &PasswordAuth{
		Username:     username,
		PasswordHash: []byte(passwordHash),
		Secret:       []byte(secret),
		TTL:          24 * time.Hour,
		CookiePath:   "/admin",
	}
}

func (a *PasswordAuth) Login(c *gin.Context) (bool, error) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) != 1 {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return false, nil
	}

	token, err := a.issue(time.Now())
	if err != nil {
		return false, err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(a.TTL.Seconds()), a.CookiePath, "", c.Request.TLS != nil, true)
	return true, nil
}

func (a *PasswordAuth) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, a.CookiePath, "", c.Request.TLS != nil, true)
}

func (a *PasswordAuth) Authenticate(c *gin.Context) bool {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return false
	}
	claims, err := a.parse(token)
	if err != nil {
		log.WithError(err).Debug("Rejected admin session")
		return false
	}
	sub, err := claims.GetSubject()
	return err == nil && sub == a.Username
}

func (a *PasswordAuth) issue(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": a.Username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(a.TTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// parse validates the signature, the signing method and the time claims
func (a *PasswordAuth) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.Secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
