package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hushmail/hushmail-be/model"
)

// SessionVerifier accepts HS256 session tokens issued by the sign-in service.
// The subject is the user's email; "name" and "picture" are optional claims.
type SessionVerifier struct {
	secret []byte
}

func NewSessionVerifier(secret string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret)}
}

func (sv *SessionVerifier) Verify(_ context.Context, tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sv.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	if sub == "" {
		return nil, ErrNoEmailClaim
	}
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	return &model.Identity{Id: sub, Name: name, Avatar: picture}, nil
}

// Sign issues a session token for identity. Used by local tooling and tests.
func (sv *SessionVerifier) Sign(identity *model.Identity, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     identity.Id,
		"name":    identity.Name,
		"picture": identity.Avatar,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(sv.secret)
}
