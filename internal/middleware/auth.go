package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/trichbarbershop/barber-queue/internal/config"
	"github.com/trichbarbershop/barber-queue/internal/identity"
)

const (
	ContextUserID    = "userID"
	ContextEmail     = "userEmail"
	ContextFullName  = "userFullName"
	ContextAvatarURL = "userAvatarURL"
)

// AuthMiddleware requires a valid bearer token. The token carries
// identity only; the role is always read from the profile row by the
// resolver, never trusted from claims.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromRequest(c, cfg)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		setSession(c, sess)
		c.Next()
	}
}

// OptionalAuthMiddleware parses the token when present but never
// rejects. Used by endpoints that answer for anonymous callers too.
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := sessionFromRequest(c, cfg); ok {
			setSession(c, sess)
		}
		c.Next()
	}
}

func sessionFromRequest(c *gin.Context, cfg *config.Config) (identity.Session, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return identity.Session{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return identity.Session{}, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return identity.Session{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Session{}, false
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return identity.Session{}, false
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	avatar, _ := claims["avatar"].(string)

	return identity.Session{
		UserID:    sub,
		Email:     email,
		FullName:  name,
		AvatarURL: avatar,
	}, true
}

func setSession(c *gin.Context, sess identity.Session) {
	c.Set(ContextUserID, sess.UserID)
	c.Set(ContextEmail, sess.Email)
	c.Set(ContextFullName, sess.FullName)
	c.Set(ContextAvatarURL, sess.AvatarURL)
}

// SessionFromContext rebuilds the session set by the auth middleware.
// The zero session means the caller is anonymous.
func SessionFromContext(c *gin.Context) identity.Session {
	userID, _ := c.Get(ContextUserID)
	email, _ := c.Get(ContextEmail)
	name, _ := c.Get(ContextFullName)
	avatar, _ := c.Get(ContextAvatarURL)

	sess := identity.Session{}
	if s, ok := userID.(string); ok {
		sess.UserID = s
	}
	if s, ok := email.(string); ok {
		sess.Email = s
	}
	if s, ok := name.(string); ok {
		sess.FullName = s
	}
	if s, ok := avatar.(string); ok {
		sess.AvatarURL = s
	}
	return sess
}
