package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookvault/api/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity payload carried by both token kinds. The two
// kinds are told apart only by which secret signed them, so a token
// presented to the wrong verifier fails the signature check.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs access and refresh tokens. It is pure given its
// configuration; secrets are validated at startup, not here.
type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (i *Issuer) sign(u *models.User, secret []byte, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) IssueAccess(u *models.User) (string, error) {
	return i.sign(u, i.AccessSecret, i.AccessTTL, "")
}

// IssueRefresh stamps each refresh token with a fresh jti. Timestamps
// are second-granular, so without it two logins in the same second
// would mint identical tokens and the single-session overwrite on
// login would silently keep the older session alive.
func (i *Issuer) IssueRefresh(u *models.User) (string, error) {
	return i.sign(u, i.RefreshSecret, i.RefreshTTL, uuid.NewString())
}

// IssuePair mints the access/refresh pair handed out by login and
// register.
func (i *Issuer) IssuePair(u *models.User) (access, refresh string, err error) {
	if access, err = i.IssueAccess(u); err != nil {
		return "", "", err
	}
	if refresh, err = i.IssueRefresh(u); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ClaimsFromToken verifies signature and expiry against the given
// secret. Every failure collapses into ErrInvalidToken: callers must
// not be able to distinguish a bad signature from an expired token.
func ClaimsFromToken(raw string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// SubjectUnverified decodes the subject without checking the
// signature. Logout uses it: revoking a session does not require
// proving the token is still valid.
func SubjectUnverified(raw string) (string, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
