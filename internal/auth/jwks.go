package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrUnknownKey = errors.New("unknown_signing_key")

type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

type jwksKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySet caches the identity provider's JSON Web Key Set. An unknown kid
// triggers a refetch, rate limited by minRefresh so a flood of garbage tokens
// cannot hammer the provider.
type KeySet struct {
	url        string
	minRefresh time.Duration
	log        *zap.Logger
	http       *http.Client

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	lastRefresh time.Time
}

func NewKeySet(url string, minRefresh time.Duration, log *zap.Logger) *KeySet {
	return &KeySet{
		url:        url,
		minRefresh: minRefresh,
		log:        log.Named("auth.jwks"),
		http:       &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Key returns the RSA public key for kid, refreshing the cached set when the
// kid is unknown and the refresh window has elapsed.
func (ks *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	ks.mu.RLock()
	key, ok := ks.keys[kid]
	ks.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := ks.refresh(ctx); err != nil {
		return nil, err
	}

	ks.mu.RLock()
	key, ok = ks.keys[kid]
	ks.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownKey
	}
	return key, nil
}

func (ks *KeySet) refresh(ctx context.Context) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if time.Since(ks.lastRefresh) < ks.minRefresh {
		return nil
	}
	ks.lastRefresh = time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.url, nil)
	if err != nil {
		return err
	}
	resp, err := ks.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, jk := range doc.Keys {
		if jk.Kty != "RSA" || jk.Kid == "" {
			continue
		}
		key, err := parseRSAKey(jk)
		if err != nil {
			ks.log.Warn("skipping malformed jwk", zap.String("kid", jk.Kid), zap.Error(err))
			continue
		}
		keys[jk.Kid] = key
	}
	ks.keys = keys
	ks.log.Debug("jwks refreshed", zap.Int("keys", len(keys)))
	return nil
}

func parseRSAKey(jk jwksKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jk.N)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jk.E)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, errors.New("non-positive exponent")
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
