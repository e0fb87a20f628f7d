package apiclient

import (
	"context"
	"net/http"
	"strings"

	"bizadmin/internal/model"
)

// SignIn exchanges credentials for a token pair and installs it.
func (c *Client) SignIn(ctx context.Context, cred model.Credentials) (model.AuthResponse, error) {
	cred.Email = strings.TrimSpace(cred.Email)
	var out model.AuthResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/signin", body: cred, public: true}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if out.Token == "" {
		return model.AuthResponse{}, &APIError{Status: http.StatusBadGateway, Message: "resposta sem token"}
	}
	c.replaceToken(tokenPair{Token: out.Token, RefreshToken: out.RefreshToken}.token())
	return out, nil
}

func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": strings.TrimSpace(email)}
	return c.do(ctx, request{method: http.MethodPost, path: "/recovery-password", body: body, public: true}, nil)
}

func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/profile"}, &out)
	return out, err
}

// SignOut drops the local session. The API has no sign-out endpoint.
func (c *Client) SignOut() { c.ClearToken() }
