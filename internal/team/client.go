// Package team is the thin transport for team-member CRUD. It exists on the
// other side of the request authorizer: every call here goes out with the
// current session token attached by the shared api client.
package team

import (
	"context"
	"fmt"
	"net/http"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/api"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
)

// Member mirrors the backend UserResponse shape.
type Member struct {
	ID           int           `json:"id"`
	FullName     string        `json:"fullName"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	UserRole     *session.Role `json:"userRole"`
	Location     string        `json:"location,omitempty"`
	Experience   string        `json:"experience,omitempty"`
	Avatar       string        `json:"avatar,omitempty"`
	TeamPosition string        `json:"teamPosition,omitempty"`
	Skills       []string      `json:"skills,omitempty"`
}

// CreateMemberRequest mirrors the backend CreateUserRequest shape.
type CreateMemberRequest struct {
	FullName     string       `json:"fullName"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	Password     string       `json:"password,omitempty"`
	UserRole     session.Role `json:"userRole"`
	Location     string       `json:"location,omitempty"`
	Experience   string       `json:"experience,omitempty"`
	TeamPosition string       `json:"teamPosition,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
}

// UpdateMemberRequest mirrors the backend UpdateUserRequest shape; the role
// is not updatable through this call.
type UpdateMemberRequest struct {
	FullName     string   `json:"fullName"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Password     string   `json:"password,omitempty"`
	Location     string   `json:"location,omitempty"`
	Experience   string   `json:"experience,omitempty"`
	TeamPosition string   `json:"teamPosition,omitempty"`
	Skills       []string `json:"skills,omitempty"`
}

type Client struct {
	api *api.Client
}

func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context) ([]Member, error) {
	var out []Member
	if err := c.api.JSON(ctx, http.MethodGet, "/user/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	var out Member
	if err := c.api.JSON(ctx, http.MethodPost, "/user/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int, req UpdateMemberRequest) (*Member, error) {
	var out Member
	if err := c.api.JSON(ctx, http.MethodPut, fmt.Sprintf("/user/update/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.JSON(ctx, http.MethodDelete, fmt.Sprintf("/user/delete/%d", id), nil, nil)
}
