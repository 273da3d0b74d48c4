package user

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/studentsphere/portal/core"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type (
	verifyClaims struct {
		jwt.StandardClaims
		Email string `json:"email"`
	}

	// TokenSigner issues and checks the signed tokens embedded in
	// email-verification links.
	TokenSigner struct {
		secret []byte
		ttl    time.Duration
		issuer string
	}
)

func NewTokenSigner(conf *core.Config) *TokenSigner {
	return &TokenSigner{
		secret: []byte(conf.SecretKey),
		ttl:    conf.VerificationTokenTTL,
		issuer: conf.AppName,
	}
}

// MakeVerificationToken generates a signed verification token for a given User.
func (s *TokenSigner) MakeVerificationToken(usr User) (string, error) {
	now := nowFunc()
	claims := &verifyClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.issuer,
			Subject:   strconv.Itoa(usr.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
		Email: usr.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(s.secret)
	return ss, errors.Wrap(err, "signing token")
}

// VerifyToken checks a verification token's signature and expiry and returns
// the email it was issued for.
func (s *TokenSigner) VerifyToken(token string) (string, error) {
	claims := new(verifyClaims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
