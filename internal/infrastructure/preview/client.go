package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"printlab/internal/domain/service"
	"printlab/pkg/errors"
	"printlab/pkg/logger"
)

// Client talks to one preview-rendering backend over HTTP. The orchestrator
// chains a primary and a fallback client; each call is bounded by the
// configured timeout, which is longer than a typical request timeout because
// rendering is slow.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func NewClient(name, baseURL string, timeout time.Duration) *Client {
	return &Client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Name() string {
	return c.name
}

type renderResponse struct {
	Success   bool   `json:"success"`
	Preview2D string `json:"preview_2d"`
	ImageData string `json:"image_data"`
	Format    string `json:"format"`
	Error     string `json:"error"`
}

func (c *Client) Render(ctx context.Context, req service.RenderRequest) (*service.RenderResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: failed to encode render request", c.name), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-preview", bytes.NewReader(body))
	if err != nil {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: failed to build request", c.name), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug("Calling preview backend %s for %s (%s)", c.name, req.FilePath, req.PreviewType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: request failed", c.name), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: backend returned status %d", c.name, resp.StatusCode), nil)
	}

	var rendered renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&rendered); err != nil {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: malformed response", c.name), err)
	}

	if !rendered.Success {
		message := rendered.Error
		if message == "" {
			message = "backend reported failure without detail"
		}
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: %s", c.name, message), nil)
	}

	// Backends differ in the payload field name
	payload := rendered.Preview2D
	if payload == "" {
		payload = rendered.ImageData
	}
	if payload == "" {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: response contained no image payload", c.name), nil)
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.RenderServiceError(fmt.Sprintf("%s: image payload is not valid base64", c.name), err)
	}

	format := rendered.Format
	if format == "" {
		format = "png"
	}

	return &service.RenderResult{
		Image:  image,
		Format: format,
	}, nil
}
