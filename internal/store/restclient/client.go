// Package restclient implements the Store interface over the HTTP API's
// store passthrough, so one dashboard instance (or the CLI) can use another
// as its backing collection.
package restclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/faciam-dev/listdash/pkg/store"
)

type Client struct {
	base string
	http *resty.Client
}

type Option func(*Client)

// WithToken sets the Authorization token.
func WithToken(tok string) Option {
	return func(c *Client) {
		c.http.SetAuthToken(tok)
	}
}

// New returns a Store speaking to the given base URL.
func New(base string, opts ...Option) *Client {
	c := &Client{base: base, http: resty.New()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Fetch(ctx context.Context, q store.ReadQuery) ([]store.Record, error) {
	var out struct {
		Items []store.Record `json:"items"`
	}
	body := map[string]any{"expression": q.Expression, "topCount": q.TopCount}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).
		Post(c.base + "/v1/store/" + q.Collection + "/query")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out.Items, nil
}

func (c *Client) Create(ctx context.Context, collection string, payload store.Record) (store.Record, error) {
	var out store.Record
	resp, err := c.http.R().SetContext(ctx).SetBody(payload).SetResult(&out).
		Post(c.base + "/v1/store/" + collection + "/records")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, collection string, id any, payload store.Record) (store.Record, error) {
	var out store.Record
	resp, err := c.http.R().SetContext(ctx).SetBody(payload).SetResult(&out).
		Put(fmt.Sprintf("%s/v1/store/%s/records/%v", c.base, collection, id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, collection string, id any) error {
	resp, err := c.http.R().SetContext(ctx).
		Delete(fmt.Sprintf("%s/v1/store/%s/records/%v", c.base, collection, id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return restyErr(resp)
	}
	return nil
}

func restyErr(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return store.ErrNotFound
	}
	return fmt.Errorf("api: %s: %s", resp.Status(), resp.String())
}
