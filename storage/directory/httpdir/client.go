package httpdir

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/user"
)

type (
	// Client queries the user-directory service over HTTP. Requests carry a
	// bounded timeout; a failed or non-2xx response is surfaced as an error
	// and never retried here.
	Client struct {
		baseURL string
		http    *http.Client
	}

	usersResponse struct {
		Count int         `json:"count"`
		Users []user.User `json:"users"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
)

var _ user.Directory = (*Client)(nil) // interface compliance check

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Directory.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Directory.Timeout},
	}
}

func (c *Client) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, errors.Wrap(err, "building directory request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "querying directory")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("directory returned %s", res.Status)
	}

	var data usersResponse
	if err = json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "decoding directory response")
	}
	return data.Users, nil
}

// VerifyPassword has the directory check the password server-side; only
// success or failure comes back, never the expected value.
func (c *Client) VerifyPassword(ctx context.Context, email, pwd string) error {
	body, err := json.Marshal(loginRequest{Email: email, Password: pwd})
	if err != nil {
		return errors.Wrap(err, "encoding login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "querying directory")
	}
	defer func() { _ = res.Body.Close() }()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return user.ErrInvalidCredentials
	default:
		return errors.Errorf("directory returned %s", res.Status)
	}
}
