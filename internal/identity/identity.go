// Package identity decodes ID tokens handed back by the federated
// login flow into a normalized profile. Tokens are HS256-signed with
// the client secret shared with the provider; issuer and audience are
// checked so a token minted for another application is rejected.
package identity

import (
	"errors"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/ttithipan/67011671-Todo/internal/domain"
)

// ErrInvalidToken indicates the ID token failed validation.
var ErrInvalidToken = errors.New("identity: invalid id token")

// Claims is the subset of ID-token claims the tracker consumes.
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"name"`
	jwtlib.RegisteredClaims
}

// Decoder validates provider ID tokens.
type Decoder struct {
	secret   string
	issuer   string
	audience string
}

// NewDecoder constructs a Decoder for the configured provider client.
func NewDecoder(secret, issuer, audience string) Decoder {
	return Decoder{secret: secret, issuer: issuer, audience: audience}
}

// Decode validates the token and extracts the federated profile. The
// subject claim becomes the provider-scoped identifier.
func (d Decoder) Decode(token string) (domain.Profile, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return domain.Profile{}, ErrInvalidToken
	}
	options := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}),
	}
	if d.issuer != "" {
		options = append(options, jwtlib.WithIssuer(d.issuer))
	}
	if d.audience != "" {
		options = append(options, jwtlib.WithAudience(d.audience))
	}
	parsed, err := jwtlib.ParseWithClaims(trimmed, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(d.secret), nil
	}, options...)
	if err != nil {
		return domain.Profile{}, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Profile{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return domain.Profile{}, ErrInvalidToken
	}
	return domain.Profile{
		GoogleID: claims.Subject,
		Email:    claims.Email,
		FullName: claims.FullName,
	}, nil
}
