// Package blogclient is a Go client for the blog API together with the
// interaction state a front end keeps: the current session, the listing view
// and the delete confirmation step.
package blogclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"modernblog/internal/models"
	"modernblog/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// APIError is a non-2xx response of the API.
type APIError struct {
	Status   int               `json:"-"`
	Message  string            `json:"message"`
	Detail   string            `json:"error,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// ListResponse is one page of the listing with its pagination controls.
type ListResponse struct {
	models.PageResult
	Pagination pagination.Controls `json:"pagination"`
}

// PostDetail is a single post as shown on its detail page.
type PostDetail struct {
	models.Post
	CanModify  bool `json:"can_modify"`
	WasUpdated bool `json:"was_updated"`
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username        string `json:"username"`
	FullName        string `json:"full_name,omitempty"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Client talks to the blog API. Requests carry the token of the attached
// SessionStore, if any.
type Client struct {
	baseURL  string
	sessions *SessionStore
	timeout  time.Duration
}

// New creates a Client for the API rooted at baseURL, e.g. "http://localhost:8080".
// sessions may be nil for anonymous use.
func New(baseURL string, sessions *SessionStore) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/") + "/api/v1",
		sessions: sessions,
		timeout:  10 * time.Second,
	}
}

func (c *Client) token() string {
	if c.sessions == nil {
		return ""
	}
	return c.sessions.Current().Token
}

// do sends one request and decodes a 2xx body into out.
func (c *Client) do(a *fiber.Agent, token string, in, out interface{}) error {
	a.Timeout(c.timeout)
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if in != nil {
		a.JSON(in)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errs[0])
	}

	if code < 200 || code > 299 {
		apiErr := &APIError{Status: code}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = utils.StatusMessage(code)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(req RegisterRequest) (*models.Profile, error) {
	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	if err := c.do(fiber.Post(c.baseURL+"/auth/register"), c.token(), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

// Login signs in and, when a SessionStore is attached, makes the new session current.
func (c *Client) Login(email, password string) (Snapshot, error) {
	var resp struct {
		Token string          `json:"token"`
		User  models.Identity `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(fiber.Post(c.baseURL+"/auth/login"), c.token(), body, &resp); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Token: resp.Token, Identity: &resp.User}
	if c.sessions != nil {
		c.sessions.SignIn(snap)
	}
	return snap, nil
}

// Logout revokes the current token and clears the session store.
func (c *Client) Logout() error {
	if err := c.do(fiber.Post(c.baseURL+"/auth/logout"), c.token(), nil, nil); err != nil {
		return err
	}
	if c.sessions != nil {
		c.sessions.SignOut()
	}
	return nil
}

// Session returns the identity the server associates with token, or nil.
func (c *Client) Session(token string) (*models.Identity, error) {
	var resp struct {
		User *models.Identity `json:"user"`
	}
	if err := c.do(fiber.Get(c.baseURL+"/auth/session"), token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// ListPosts fetches one page of the listing. An empty search lists everything.
func (c *Client) ListPosts(page int, search string) (*ListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if search != "" {
		q.Set("search", search)
	}

	var resp ListResponse
	if err := c.do(fiber.Get(c.baseURL+"/posts?"+q.Encode()), c.token(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPost fetches a post for its detail page.
func (c *Client) GetPost(id string) (*PostDetail, error) {
	var resp PostDetail
	if err := c.do(fiber.Get(c.baseURL+"/posts/"+url.PathEscape(id)), c.token(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPostForEdit loads a post into the edit form; only its author may.
func (c *Client) GetPostForEdit(id string) (*models.Post, error) {
	var resp models.Post
	if err := c.do(fiber.Get(c.baseURL+"/posts/"+url.PathEscape(id)+"/edit"), c.token(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePost publishes a post as the signed-in user.
func (c *Client) CreatePost(in models.PostInput) (*models.Post, error) {
	var resp struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(fiber.Post(c.baseURL+"/posts"), c.token(), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

// UpdatePost replaces title and content of one of the signed-in user's posts.
func (c *Client) UpdatePost(id string, in models.PostInput) (*models.Post, error) {
	var resp struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(fiber.Put(c.baseURL+"/posts/"+url.PathEscape(id)), c.token(), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

// DeletePost removes one of the signed-in user's posts.
func (c *Client) DeletePost(id string) error {
	return c.do(fiber.Delete(c.baseURL+"/posts/"+url.PathEscape(id)), c.token(), nil, nil)
}
