// Package client is a Go client for the catalog REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	models "catalog-management/model"
)

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	Status  int
	Message string            `json:"error"`
	Detail  string            `json:"detail"`
	Fields  map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("catalog api: %d %s", e.Status, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	for k, v := range e.Fields {
		msg += fmt.Sprintf(" [%s %s]", k, v)
	}
	return msg
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Token returns the bearer token in use, set by Login or WithToken.
func (c *Client) Token() string { return c.token }

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request")
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		ae := &APIError{Status: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(ae); err != nil || ae.Message == "" {
			ae.Message = http.StatusText(res.StatusCode)
		}
		return ae
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrap(json.NewDecoder(res.Body).Decode(out), "decode response")
}

func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var res models.LoginResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", models.LoginRequest{Username: username, Password: password}, &res)
	if err != nil {
		return res, err
	}
	c.token = res.Token
	return res, nil
}

// ValidateToken returns the subject of the current token.
func (c *Client) ValidateToken(ctx context.Context) (string, error) {
	var res struct {
		Subject string `json:"subject"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/validate-token", nil, &res); err != nil {
		return "", err
	}
	return res.Subject, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := c.call(ctx, http.MethodGet, "/categories", nil, &cats)
	return cats, err
}

// ListOptions filters a product listing. Zero values use the server defaults.
type ListOptions struct {
	CategoryID int64
	Page       int
	PageSize   int
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.CategoryID > 0 {
		q.Set("categoryId", strconv.FormatInt(o.CategoryID, 10))
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) ListProducts(ctx context.Context, opts ListOptions) (models.PagedResult[models.Product], error) {
	var page models.PagedResult[models.Product]
	err := c.call(ctx, http.MethodGet, "/products"+opts.query(), nil, &page)
	return page, err
}

// AllProducts walks every page of a listing and returns the products in
// display order.
func (c *Client) AllProducts(ctx context.Context, categoryID int64) ([]models.Product, error) {
	const pageSize = 500
	var all []models.Product
	for page := 1; ; page++ {
		res, err := c.ListProducts(ctx, ListOptions{CategoryID: categoryID, Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) < pageSize || int64(len(all)) >= res.TotalCount {
			return all, nil
		}
	}
}

func (c *Client) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &p)
	return p, err
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	err := c.call(ctx, http.MethodPost, "/products", p, &created)
	return created, err
}

func (c *Client) UpdateProduct(ctx context.Context, p models.Product) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf("/products/%d", p.ID), p, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

func (c *Client) ReorderGlobal(ctx context.Context, items []models.ReorderItem) error {
	return c.call(ctx, http.MethodPost, "/products/reorder/global", items, nil)
}

func (c *Client) ReorderCategory(ctx context.Context, categoryID int64, items []models.ReorderItem) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/products/reorder/category/%d", categoryID), items, nil)
}

// UploadImage sends body as the "file" part of a multipart upload.
func (c *Client) UploadImage(ctx context.Context, productID int64, filename string, body io.Reader) (models.ProductImage, error) {
	var img models.ProductImage

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return img, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return img, errors.Wrap(err, "read image")
	}
	if err := mw.Close(); err != nil {
		return img, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/images/upload/%d", productID), nil)
	if err != nil {
		return img, err
	}
	req.Body = io.NopCloser(&buf)
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	err = c.do(req, &img)
	return img, err
}

func (c *Client) DeleteImage(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/images/%d", id), nil, nil)
}
