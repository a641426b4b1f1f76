package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opencanteen/mensa/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrNotConfigured = errors.New("auth_not_configured")
)

// Claims carries what the guards need from a validated token. Role is only
// present on super-admin tokens; user tokens resolve their role from the
// employee record instead.
type Claims struct {
	Subject      string `json:"sub"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employee_code"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// rsaVerifier validates RS256 bearer tokens against the cached JWKS. When a
// local HS256 secret is configured it is tried as a development fallback.
type rsaVerifier struct {
	keys     *KeySet
	issuer   string
	audience string
	hsSecret []byte
}

func newVerifier(keys *KeySet, issuer, audience, hsSecret string) Verifier {
	return &rsaVerifier{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		hsSecret: []byte(hsSecret),
	}
}

func (v *rsaVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if v.keys == nil && len(v.hsSecret) == 0 {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "HS256"}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		switch t.Method.(type) {
		case *jwt.SigningMethodRSA:
			if v.keys == nil {
				return nil, ErrNotConfigured
			}
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, ErrUnknownKey
			}
			return v.keys.Key(ctx, kid)
		case *jwt.SigningMethodHMAC:
			if len(v.hsSecret) == 0 {
				return nil, fmt.Errorf("hs256 not enabled")
			}
			return v.hsSecret, nil
		default:
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserVerifier validates tokens issued to canteen employees.
type UserVerifier struct{ Verifier }

// AdminVerifier validates tokens issued to super admins.
type AdminVerifier struct{ Verifier }

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

type Result struct {
	fx.Out

	User  UserVerifier
	Admin AdminVerifier
}

func New(p Params) Result {
	var keys *KeySet
	if p.Cfg.AuthJWKSURL != "" {
		keys = NewKeySet(p.Cfg.AuthJWKSURL, time.Duration(p.Cfg.JWKSRefreshSeconds)*time.Second, p.Log)
	} else if p.Cfg.AuthLocalHSSecret == "" {
		p.Log.Named("auth").Warn("no jwks url and no local secret configured, all tokens will be rejected")
	}

	return Result{
		User:  UserVerifier{newVerifier(keys, p.Cfg.AuthIssuer, p.Cfg.AuthUserAudience, p.Cfg.AuthLocalHSSecret)},
		Admin: AdminVerifier{newVerifier(keys, p.Cfg.AuthIssuer, p.Cfg.AuthAdminAudience, p.Cfg.AuthLocalHSSecret)},
	}
}

var Module = fx.Module("auth",
	fx.Provide(New),
)
