package middleware

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"
	"github.com/hushmail/hushmail-be/model"
)

var ErrNoEmailClaim = errors.New("token has no email claim")

// FirebaseVerifier accepts Firebase ID tokens. Identities are keyed by email.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (fv *FirebaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	idToken, err := fv.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(idToken.Claims)
}

func identityFromClaims(claims map[string]interface{}) (*model.Identity, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrNoEmailClaim
	}
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	return &model.Identity{Id: email, Name: name, Avatar: picture}, nil
}
