// Package projects is the thin transport for project CRUD. Create and Update
// ship a multipart body: a "project" JSON part plus an optional "image" part,
// matching what the backend's upload endpoint expects.
package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/api"
)

type Project struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"imageUrl"`
	Client       string   `json:"client"`
	Price        float64  `json:"price"`
	Link         string   `json:"link"`
	Deadline     string   `json:"deadline"`
	TeamSize     int      `json:"teamSize"`
	Type         string   `json:"type"`
	Technologies []string `json:"technologies"`
}

type ProjectRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Client       string   `json:"client"`
	Price        float64  `json:"price"`
	Link         string   `json:"link"`
	Deadline     string   `json:"deadline"`
	TeamSize     int      `json:"teamSize"`
	Type         string   `json:"type"`
	Technologies []string `json:"technologies"`
}

type Client struct {
	api *api.Client
}

func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.api.JSON(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, req ProjectRequest, image []byte) (*Project, error) {
	return c.upload(ctx, http.MethodPost, "/projects/create", req, image)
}

func (c *Client) Update(ctx context.Context, id int, req ProjectRequest, image []byte) (*Project, error) {
	return c.upload(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), req, image)
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.JSON(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}

func (c *Client) upload(ctx context.Context, method, path string, req ProjectRequest, image []byte) (*Project, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="project"`)
	hdr.Set("Content-Type", "application/json")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(part).Encode(req); err != nil {
		return nil, err
	}

	if image != nil {
		fw, err := w.CreateFormFile("image", "image")
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(image); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out Project
	if err := c.api.Raw(ctx, method, path, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
