package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aurachat/backend/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer        = "aurachat-backend"
	userIDKey     = "user_id"
	bearerPrefix  = "Bearer"
	tokenQueryKey = "token"
)

// Auth issues and checks HS256 session tokens. The token subject is the user id.
type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for userID.
func (a *Auth) Issue(userID string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates tokenString and returns its subject.
func (a *Auth) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// RequireAuth reads the token from the Authorization header, or from the
// "token" query parameter for browser WebSocket clients.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if parts := strings.Fields(c.GetHeader("Authorization")); len(parts) == 2 && parts[0] == bearerPrefix {
			tokenString = parts[1]
		}
		if tokenString == "" {
			tokenString = c.Query(tokenQueryKey)
		}
		if tokenString == "" {
			abortUnauthorized(c, "authorization required")
			return
		}

		userID, err := a.Parse(tokenString)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	err := apperror.Unauthorized(message)
	c.AbortWithStatusJSON(apperror.MapErrorToStatus(err), gin.H{"error": apperror.PublicMessage(err)})
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
