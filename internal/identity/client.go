// Package identity implements the admin client for the external identity
// provider, the system of record for user identities and custom claims.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"iam-be/internal/domain"
	"iam-be/pkg/errors"
	"iam-be/pkg/logger"
)

// Client calls the identity provider's admin REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new identity provider admin client. All requests carry
// the service key as a bearer token.
func NewClient(baseURL, serviceKey string, log *logger.Logger) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: serviceKey,
		TokenType:   "Bearer",
	})

	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 10 * time.Second

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// providerUser is the provider's wire representation of a user record
type providerUser struct {
	ID          string                 `json:"id"`
	Email       string                 `json:"email"`
	DisplayName string                 `json:"display_name"`
	Disabled    bool                   `json:"disabled"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
}

func (u *providerUser) toDomain() *domain.UserIdentity {
	return &domain.UserIdentity{
		UID:          u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Disabled:     u.Disabled,
		CustomClaims: u.AppMetadata,
	}
}

type listUsersResponse struct {
	Users         []*providerUser `json:"users"`
	NextPageToken string          `json:"next_page_token"`
}

// FindUserByEmail looks up a user record by its normalized email.
// Returns a not-found error when the provider has no matching record.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*domain.UserIdentity, error) {
	endpoint := fmt.Sprintf("%s/admin/users/email/%s", c.baseURL, url.PathEscape(email))

	body, status, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var user providerUser
		if err := json.Unmarshal(body, &user); err != nil {
			return nil, errors.NewExternalError("Failed to decode identity provider response", err)
		}
		return user.toDomain(), nil
	case http.StatusNotFound:
		return nil, errors.NewNotFoundError("No user with that email")
	default:
		return nil, c.statusError("find user by email", status, body)
	}
}

// ListUsers fetches one page of user records. An empty next page token means
// the listing is exhausted.
func (c *Client) ListUsers(ctx context.Context, pageSize int, pageToken string) (*domain.UserPage, error) {
	endpoint := fmt.Sprintf("%s/admin/users?page_size=%d", c.baseURL, pageSize)
	if pageToken != "" {
		endpoint += "&page_token=" + url.QueryEscape(pageToken)
	}

	body, status, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.statusError("list users", status, body)
	}

	var resp listUsersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewExternalError("Failed to decode identity provider response", err)
	}

	page := &domain.UserPage{NextPageToken: resp.NextPageToken}
	for _, u := range resp.Users {
		page.Users = append(page.Users, u.toDomain())
	}
	return page, nil
}

// CreateUser creates a new user record and returns it with the
// provider-assigned uid
func (c *Client) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.UserIdentity, error) {
	endpoint := c.baseURL + "/admin/users"

	body, status, err := c.do(ctx, http.MethodPost, endpoint, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, c.statusError("create user", status, body)
	}

	var user providerUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.NewExternalError("Failed to decode identity provider response", err)
	}

	c.logger.WithField("uid", user.ID).Debug("Identity created")
	return user.toDomain(), nil
}

// UpdateUser applies a partial update to an existing record. Only fields set
// on params are sent; the provider leaves the rest untouched. Returns a
// not-found error for an unknown uid.
func (c *Client) UpdateUser(ctx context.Context, uid string, params domain.UpdateUserParams) (*domain.UserIdentity, error) {
	endpoint := fmt.Sprintf("%s/admin/users/%s", c.baseURL, url.PathEscape(uid))

	body, status, err := c.do(ctx, http.MethodPut, endpoint, params)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var user providerUser
		if err := json.Unmarshal(body, &user); err != nil {
			return nil, errors.NewExternalError("Failed to decode identity provider response", err)
		}
		c.logger.WithField("uid", user.ID).Debug("Identity updated")
		return user.toDomain(), nil
	case http.StatusNotFound:
		return nil, errors.NewNotFoundError("No user with that uid")
	default:
		return nil, c.statusError("update user", status, body)
	}
}

// SetCustomClaims replaces the user's custom claims with exactly the given
// set. Claims previously present and not in the new set are erased.
func (c *Client) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	endpoint := fmt.Sprintf("%s/admin/users/%s/claims", c.baseURL, url.PathEscape(uid))

	payload := map[string]interface{}{"claims": claims}
	body, status, err := c.do(ctx, http.MethodPut, endpoint, payload)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK, http.StatusNoContent:
		c.logger.WithField("uid", uid).Debug("Custom claims set")
		return nil
	case http.StatusNotFound:
		return errors.NewNotFoundError("No user with that uid")
	default:
		return c.statusError("set custom claims", status, body)
	}
}

// do issues one request and returns the raw response body and status
func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, errors.NewInternalError("Failed to marshal request body", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, errors.NewInternalError("Failed to create request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.NewExternalError("Identity provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.NewExternalError("Failed to read identity provider response", err)
	}

	return body, resp.StatusCode, nil
}

// statusError builds the error for an unexpected provider status code
func (c *Client) statusError(op string, status int, body []byte) error {
	c.logger.WithFields(map[string]interface{}{
		"operation":   op,
		"status_code": status,
		"body":        truncateForLog(body),
	}).Error("Identity provider returned error")

	return errors.NewExternalError(
		fmt.Sprintf("Identity provider %s failed with status %s", op, strconv.Itoa(status)),
		fmt.Errorf("status %d: %s", status, truncateForLog(body)),
	)
}

func truncateForLog(body []byte) string {
	const max = 256
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "…"
}
