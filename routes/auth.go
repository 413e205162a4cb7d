package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hushmail/hushmail-be/middleware"
)

// Authenticator builds the session middlewares shared by every route group.
type Authenticator struct {
	Verifier middleware.Verifier
	Cookie   string
}

func (a *Authenticator) Required() gin.HandlerFunc {
	return middleware.GenAuth(a.Verifier, &middleware.AuthConfig{Cookie: a.Cookie})
}

func (a *Authenticator) Optional() gin.HandlerFunc {
	return middleware.GenAuth(a.Verifier, &middleware.AuthConfig{Cookie: a.Cookie, SessionNotRequired: true})
}
