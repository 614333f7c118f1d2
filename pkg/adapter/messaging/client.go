package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
	"github.com/utilmon-lab/varsel/pkg/utils/safe"
)

const defaultTimeout = 30 * time.Second

// Client is the REST client for the external messaging gateway. The gateway
// owns delivery and retry; a non-2xx response here is a hard failure for the
// caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ interfaces.MessagingGateway = &Client{}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("messaging gateway base URL is required")
	}

	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type batchRequest struct {
	Messages []*message.Message `json:"messages"`
}

func (c *Client) SendBatch(ctx context.Context, messages []*message.Message) error {
	if len(messages) == 0 {
		return nil
	}

	body, err := json.Marshal(batchRequest{Messages: messages})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal message batch")
	}

	endpoint := c.baseURL + "/messages/batch"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create gateway request", goerr.TV(errutil.EndpointKey, endpoint))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call messaging gateway",
			goerr.T(errs.TagExternal), goerr.TV(errutil.EndpointKey, endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("messaging gateway returned error",
			goerr.T(errs.TagExternal),
			goerr.TV(errutil.EndpointKey, endpoint),
			goerr.TV(errutil.HTTPStatusKey, resp.StatusCode),
			goerr.V("body", string(respBody)))
	}

	return nil
}
