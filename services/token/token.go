package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"esport-accounts/apperrors"
	userModel "esport-accounts/models/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
	grantTTL   = 10 * time.Minute

	typAccess  = "access"
	typRefresh = "refresh"
	typGrant   = "password_reset"

	denylistPrefix = "denylist:"
	grantPrefix    = "reset_grant:"
)

// Pair is an access/refresh token pair minted on successful login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessClaims is what the middleware extracts from a verified access token.
type AccessClaims struct {
	UUID  string
	Email string
	Role  userModel.Role
}

// Issuer signs HS256 tokens and tracks revoked refresh jtis and outstanding
// password-reset grants in redis.
type Issuer struct {
	secret []byte
	rdb    redis.UniversalClient
}

func NewIssuer(secret string, rdb redis.UniversalClient) *Issuer {
	return &Issuer{secret: []byte(secret), rdb: rdb}
}

// IssuePair mints an access token carrying the identity claims and a
// revocable refresh token. Access tokens are stateless; only refresh tokens
// touch the denylist.
func (i *Issuer) IssuePair(u *userModel.User) (*Pair, error) {
	nowTime := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ":   typAccess,
		"sub":   u.UUID,
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   nowTime.Unix(),
		"exp":   nowTime.Add(accessTTL).Unix(),
	})
	accessStr, err := access.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ": typRefresh,
		"sub": u.UUID,
		"jti": uuid.NewString(),
		"iat": nowTime.Unix(),
		"exp": nowTime.Add(refreshTTL).Unix(),
	})
	refreshStr, err := refresh.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &Pair{Access: accessStr, Refresh: refreshStr}, nil
}

// ParseAccess verifies an access token and returns its identity claims.
func (i *Issuer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims, err := i.parse(tokenStr, typAccess)
	if err != nil {
		return nil, err
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return &AccessClaims{UUID: sub, Email: email, Role: userModel.Role(role)}, nil
}

// Revoke adds a refresh token's jti to the denylist until the token would
// have expired anyway. Revoking an already-revoked token is not an error.
func (i *Issuer) Revoke(ctx context.Context, refreshStr string) error {
	claims, err := i.parse(refreshStr, typRefresh)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return apperrors.ErrInvalidToken
	}

	ttl := refreshTTL
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		if remaining := time.Until(exp.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return i.rdb.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

// Refresh mints a fresh pair for the holder of a live, non-revoked refresh
// token.
func (i *Issuer) Refresh(ctx context.Context, refreshStr string, lookup func(uuid string) (*userModel.User, error)) (*Pair, error) {
	claims, err := i.parse(refreshStr, typRefresh)
	if err != nil {
		return nil, err
	}
	jti, _ := claims["jti"].(string)
	sub, _ := claims["sub"].(string)
	if jti == "" || sub == "" {
		return nil, apperrors.ErrInvalidToken
	}

	revoked, err := i.rdb.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return nil, fmt.Errorf("denylist lookup: %w", err)
	}
	if revoked > 0 {
		return nil, apperrors.ErrInvalidToken
	}

	u, err := lookup(sub)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return i.IssuePair(u)
}

// IssueResetGrant mints a single-use proof that OTP verification succeeded
// for the email. The grant's jti lives in redis for its whole lifetime;
// consumption removes it.
func (i *Issuer) IssueResetGrant(ctx context.Context, email string) (string, error) {
	jti := uuid.NewString()
	nowTime := time.Now()

	grant := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ": typGrant,
		"sub": email,
		"jti": jti,
		"iat": nowTime.Unix(),
		"exp": nowTime.Add(grantTTL).Unix(),
	})
	grantStr, err := grant.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset grant: %w", err)
	}

	if err := i.rdb.Set(ctx, grantPrefix+jti, email, grantTTL).Err(); err != nil {
		return "", fmt.Errorf("store reset grant: %w", err)
	}
	return grantStr, nil
}

// ConsumeResetGrant validates a grant and burns it, returning the email it
// was issued for. A second consume of the same grant fails.
func (i *Issuer) ConsumeResetGrant(ctx context.Context, grantStr string) (string, error) {
	claims, err := i.parse(grantStr, typGrant)
	if err != nil {
		return "", apperrors.ErrNoActiveGrant
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", apperrors.ErrNoActiveGrant
	}

	email, err := i.rdb.GetDel(ctx, grantPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNoActiveGrant
		}
		return "", fmt.Errorf("consume reset grant: %w", err)
	}
	return email, nil
}

func (i *Issuer) parse(tokenStr, wantTyp string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantTyp {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
