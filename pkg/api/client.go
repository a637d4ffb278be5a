package api

import (
	"context"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/reelhouse/cli/pkg/client"
)

// Client calls the REST API. The zero value is not usable; build one with New
// or Default.
type Client struct {
	http *resty.Client
}

// New wraps an existing resty client. The client's JSON codec is switched to
// json-iterator.
func New(rc *resty.Client) *Client {
	rc.JSONMarshal = json.Marshal
	rc.JSONUnmarshal = json.Unmarshal
	return &Client{http: rc}
}

// Default returns a Client on the shared HTTP client
func Default() *Client {
	return New(client.GetClient())
}

// Resty exposes the underlying HTTP client
func (c *Client) Resty() *resty.Client {
	return c.http
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// execute runs req and returns the body of a successful response
func (c *Client) execute(req *resty.Request, method, path string) ([]byte, error) {
	resp, err := req.Execute(method, path)
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// decodeEnvelope unmarshals body into target, first trying the envelope key
// (e.g. {"post": {...}}) and falling back to the bare object.
func decodeEnvelope(body []byte, key string, target interface{}) error {
	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if inner, ok := envelope[key]; ok && len(inner) > 0 && string(inner) != "null" {
			return json.Unmarshal(inner, target)
		}
	}
	return json.Unmarshal(body, target)
}

// SetToken sets the bearer token for later requests; an empty token clears it
func (c *Client) SetToken(token string) {
	if token == "" {
		c.http.SetAuthToken("")
		c.http.Header.Del("Authorization")
		return
	}
	c.http.SetAuthToken(token)
}
