// Package directory talks to the external identity provider that owns login
// credentials. The backend only mirrors employee identities into it: a register
// call on onboarding/import and a delete call on offboarding.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/opencanteen/mensa/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("directory.client",
	fx.Provide(New),
)

var ErrProvider = errors.New("directory_provider_error")

type Identity struct {
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	// IdempotencyKey dedupes retried register calls on the provider side.
	IdempotencyKey string `json:"-"`
}

type Client interface {
	Register(ctx context.Context, identity Identity) error
	Delete(ctx context.Context, email string) error
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

func New(p Params) Client {
	if p.Cfg.DirectoryBaseURL == "" {
		p.Log.Named("directory").Info("directory provider not configured, using noop client")
		return noopClient{}
	}
	return &httpClient{
		baseURL: p.Cfg.DirectoryBaseURL,
		token:   p.Cfg.DirectoryToken,
		log:     p.Log.Named("directory"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type httpClient struct {
	baseURL string
	token   string
	log     *zap.Logger
	http    *http.Client
}

func (c *httpClient) Register(ctx context.Context, identity Identity) error {
	body, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/users", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if identity.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", identity.IdempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: register returned %d", ErrProvider, resp.StatusCode)
	}
	return nil
}

func (c *httpClient) Delete(ctx context.Context, email string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v2/users/"+url.PathEscape(email), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: delete returned %d", ErrProvider, resp.StatusCode)
	}
	return nil
}

type noopClient struct{}

func (noopClient) Register(context.Context, Identity) error { return nil }
func (noopClient) Delete(context.Context, string) error     { return nil }
