package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/challenge-service/internal/config"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	userNameKey = "user_name"
)

// Identity is the authenticated caller behind a bearer token.
type Identity struct {
	UserID string
	Name   string
}

// TokenParser verifies a bearer token and returns its owner.
type TokenParser func(token string) (Identity, error)

// NewCasdoorTokenParser configures the casdoor SDK and verifies tokens
// against the application certificate.
func NewCasdoorTokenParser(cfg config.AuthConfig) TokenParser {
	casdoorsdk.InitConfig(cfg.Endpoint, cfg.ClientID, cfg.ClientSecret, cfg.Certificate, cfg.OrganizationName, cfg.ApplicationName)

	return func(token string) (Identity, error) {
		claims, err := casdoorsdk.ParseJwtToken(token)
		if err != nil {
			return Identity{}, err
		}
		return Identity{UserID: claims.User.Id, Name: claims.User.Name}, nil
	}
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller in the gin context.
func AuthMiddleware(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Missing authorization header"})
			return
		}

		identity, err := parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, identity.UserID)
		c.Set(userNameKey, identity.Name)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
