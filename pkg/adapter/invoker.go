package adapter

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Invoker sends a serialized request payload to the external inference
// service and returns the raw response body
type Invoker interface {
	Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// httpInvoker posts JSON payloads to an HTTP inference endpoint at
// {base}/model/{modelID}/invoke
type httpInvoker struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPInvoker creates an Invoker for an HTTP inference endpoint. apiKey
// may be empty when the endpoint needs no bearer token.
func NewHTTPInvoker(baseURL, apiKey string) Invoker {
	return &httpInvoker{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

func (x *httpInvoker) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	endpoint := x.baseURL + "/model/" + url.PathEscape(modelID) + "/invoke"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create inference request", goerr.T(ErrTagService))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if x.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call inference service", goerr.T(ErrTagService))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read inference response", goerr.T(ErrTagService))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, data)
	}
	return data, nil
}

// classifyStatus maps an HTTP error status onto the inference error taxonomy
func classifyStatus(code int, body []byte) error {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return goerr.New("inference request rejected", goerr.T(ErrTagBadConfig),
			goerr.V("status", code), goerr.V("body", string(body)))
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return goerr.New("inference service throttled", goerr.T(ErrTagThrottled),
			goerr.V("status", code))
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return goerr.New("model is not accessible", goerr.T(ErrTagUnavailable),
			goerr.V("status", code), goerr.V("body", string(body)))
	default:
		return goerr.New("inference service error", goerr.T(ErrTagService),
			goerr.V("status", code), goerr.V("body", string(body)))
	}
}
