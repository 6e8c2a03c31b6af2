package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

var (
	errNoChoices    = errors.New("response carried no choices")
	errEmptyContent = errors.New("response carried no content")
	errNoImageURL   = errors.New("response carried no image url")
)

const (
	defaultImageBaseURL = "https://api.openai.com/v1"
	defaultImageModel   = "dall-e-3"
	defaultImageSize    = "1024x1024"
	defaultImageQuality = "standard"
	// Image synthesis is slower than text completion, so the bound is wider.
	defaultImageTimeout = 60 * time.Second
)

// ImageClient calls an OpenAI-compatible /v1/images/generations endpoint.
type ImageClient struct {
	baseURL    string
	model      string
	size       string
	quality    string
	httpClient *http.Client
}

// NewImageClient builds an image-generation client.
// baseURL should include the /v1 prefix; empty selects the OpenAI default.
func NewImageClient(baseURL string) *ImageClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultImageBaseURL
	}
	return &ImageClient{
		baseURL: baseURL,
		model:   defaultImageModel,
		size:    defaultImageSize,
		quality: defaultImageQuality,
		httpClient: &http.Client{
			Timeout: defaultImageTimeout,
		},
	}
}

// GenerateImage implements ImageGenerator. It requests a single image and
// returns the hosted URL from the response.
func (c *ImageClient) GenerateImage(ctx context.Context, apiKey, prompt string) (string, error) {
	const op = "image generation"

	body, err := json.Marshal(imageRequest{
		Model:   c.model,
		Prompt:  prompt,
		Size:    c.size,
		Quality: c.quality,
		N:       1,
	})
	if err != nil {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", classifyStatus(op, resp.StatusCode, resp.Status)
	}

	var imgResp imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&imgResp); err != nil {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: err}
	}
	if len(imgResp.Data) == 0 || strings.TrimSpace(imgResp.Data[0].URL) == "" {
		return "", &UpstreamError{Op: op, Kind: KindMalformed, Err: errNoImageURL}
	}
	return imgResp.Data[0].URL, nil
}

// Image generations request/response types.

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}
