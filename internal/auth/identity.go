package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"delivery-marketplace/internal/domain"
)

// ErrTokenInvalid is returned for tokens that fail parsing, signature
// verification or expiry checks.
var ErrTokenInvalid = errors.New("token invalid")

// userDirectory loads the user a token subject refers to.
type userDirectory interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}

// Identity validates bearer credentials and resolves them to users.
// Token issuance itself lives outside this service; HS256 with the shared
// secret is the only accepted signature scheme.
type Identity struct {
	secret []byte
	users  userDirectory
}

// NewIdentity creates an Identity backed by the given secret and directory.
func NewIdentity(secret string, users userDirectory) *Identity {
	return &Identity{secret: []byte(secret), users: users}
}

// Resolve validates the token and returns the active user it identifies.
func (i *Identity) Resolve(ctx context.Context, token string) (*domain.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, ErrTokenInvalid
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrTokenInvalid
	}

	u, err := i.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrTokenInvalid
	}
	return u, nil
}

// IssueToken signs a token for the given user id. Used by tooling and
// tests; production issuance is the identity provider's business.
func (i *Identity) IssueToken(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString(i.secret)
}
