package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/model"
	"github.com/hushmail/hushmail-be/util"
)

const (
	TOKEN_KEY    = "authToken"
	IDENTITY_KEY = "identity"
)

// Verifier turns a bearer token or session cookie into the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

type AuthConfig struct {
	// SessionNotRequired lets requests without a valid session through with no identity set.
	SessionNotRequired bool
	// Cookie is checked when no Authorization header is present. Empty disables cookies.
	Cookie string
}

func GenAuth(verifier Verifier, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c, config.Cookie)
		if !ok {
			if config.SessionNotRequired {
				return
			}
			util.HandleHTTPErrorRes(c, &util.UnauthenticatedHTTPErr)
			return
		}
		c.Set(TOKEN_KEY, token)

		identity, err := verifier.Verify(c, token)
		if err != nil || identity == nil {
			if config.SessionNotRequired {
				return
			}
			log.Info.Println("rejected session", err)
			util.HandleHTTPErrorRes(c, &util.UnauthenticatedHTTPErr)
			return
		}
		c.Set(IDENTITY_KEY, identity)
	}
}

func extractToken(c *gin.Context, cookie string) (string, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") && len(header) > len("Bearer ") {
		return header[len("Bearer "):], true
	}
	if cookie == "" {
		return "", false
	}
	token, err := c.Cookie(cookie)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// GetIdentityMaybe returns nil for unauthenticated requests.
func GetIdentityMaybe(c *gin.Context) *model.Identity {
	identity, ok := c.Get(IDENTITY_KEY)
	if !ok {
		return nil
	}
	return identity.(*model.Identity)
}

// MustGetIdentity should only be used behind GenAuth without SessionNotRequired.
func MustGetIdentity(c *gin.Context) *model.Identity {
	return c.MustGet(IDENTITY_KEY).(*model.Identity)
}
