// Package client is a Go client for the ordering platform API. It owns the
// session lifecycle the admin console needs: hydrate the cached identity,
// verify it against the server, attach the bearer token to every request,
// and tear the session down centrally when any call returns 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// ErrUnauthenticated is returned when the server rejects the session's
// credentials. By the time the caller sees it, the session has already been
// torn down.
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError is a non-401 error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client calls the ordering platform API on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a Client for baseURL. httpClient may be nil.
func New(baseURL string, session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
	}
}

// Session exposes the underlying session for guards and state queries.
func (c *Client) Session() *Session {
	return c.session
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates and establishes the session.
func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Username: username, Password: password}, &resp, false); err != nil {
		return User{}, err
	}
	c.session.establish(Credentials{Token: resp.Token, User: resp.User})
	return resp.User, nil
}

type userEnvelope struct {
	User User `json:"user"`
}

// Verify refreshes the cached identity from the server. A hydrated session
// should call this once at startup before rendering protected UI.
func (c *Client) Verify(ctx context.Context) (User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp, true); err != nil {
		return User{}, err
	}
	c.session.establish(Credentials{Token: c.session.Token(), User: resp.User})
	return resp.User, nil
}

type usersEnvelope struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// ListUsers returns all user accounts (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp usersEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/users", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// NewUser holds the fields for CreateUser.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser adds a user account (admin only).
func (c *Client) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/users", nu, &resp, true); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// UserPatch holds optional fields for UpdateUser; nil fields are not sent.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// UpdateUser applies a partial update to a user account (admin only).
func (c *Client) UpdateUser(ctx context.Context, id string, patch UserPatch) (User, error) {
	var resp userEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/auth/users/"+id, patch, &resp, true); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// DeleteUser removes a user account (admin only).
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/users/"+id, nil, nil, true)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rotates the caller's own password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPut, "/api/auth/change-password", changePasswordRequest{CurrentPassword: current, NewPassword: next}, nil, true)
}

// FoodItem is a catalog entry as seen by the client.
type FoodItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

type foodListEnvelope struct {
	Data []FoodItem `json:"data"`
}

// ListFood returns the food catalog.
func (c *Client) ListFood(ctx context.Context) ([]FoodItem, error) {
	var resp foodListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/food/list", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RemoveFood deletes a catalog entry.
func (c *Client) RemoveFood(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/food/remove", map[string]string{"id": id}, nil, true)
}

// Order is a placed order as seen by the client.
type Order struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status"`
}

type orderListEnvelope struct {
	Data []Order `json:"data"`
}

// ListOrders returns all orders (admin/editor only).
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var resp orderListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/order/list", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UpdateOrderStatus moves an order to a new status (admin/editor only).
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"order_id": orderID, "status": status}
	return c.do(ctx, http.MethodPost, "/api/order/status", body, nil, true)
}

// do performs one API call. When authed is true the session token is
// attached; a 401 response triggers the central session teardown before the
// error is returned.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.session.teardown()
		return ErrUnauthenticated
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
