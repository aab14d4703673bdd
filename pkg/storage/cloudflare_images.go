package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	VariantPublic = "public"

	defaultImagesAPI     = "https://api.cloudflare.com/client/v4"
	defaultDeliveryURL   = "https://imagedelivery.net"
	customDomainDelivery = "cdn-cgi/imagedelivery"
)

// CloudflareImagesConfig configures the Images client. APIURL and
// DeliveryURL default to the public Cloudflare endpoints.
type CloudflareImagesConfig struct {
	AccountID   string
	Token       string
	AccountHash string
	APIURL      string
	DeliveryURL string
	HTTPClient  *http.Client
}

// CloudflareImagesResponse is the envelope returned by the Images API.
type CloudflareImagesResponse struct {
	Success bool `json:"success"`
	Result  struct {
		ID       string   `json:"id"`
		Variants []string `json:"variants"`
	} `json:"result"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// CloudflareImages stores photos with Cloudflare Images. Locators are
// delivery URLs: https://imagedelivery.net/<account_hash>/<image_id>/<variant>.
type CloudflareImages struct {
	accountID   string
	apiToken    string
	accountHash string
	apiURL      string
	deliveryURL string
	client      *http.Client
}

func NewCloudflareImages(cfg CloudflareImagesConfig) *CloudflareImages {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: 2 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultImagesAPI
	}
	deliveryURL := cfg.DeliveryURL
	if deliveryURL == "" {
		deliveryURL = defaultDeliveryURL
	}

	return &CloudflareImages{
		accountID:   cfg.AccountID,
		apiToken:    cfg.Token,
		accountHash: cfg.AccountHash,
		apiURL:      strings.TrimSuffix(apiURL, "/"),
		deliveryURL: strings.TrimSuffix(deliveryURL, "/"),
		client:      client,
	}
}

// Store uploads data under the custom image id photos/<key without ext>.
func (c *CloudflareImages) Store(ctx context.Context, data []byte, key string, _ string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file, size is 0 bytes")
	}
	imageID := "photos/" + strings.TrimSuffix(key, path.Ext(key))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", key)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.WriteField("id", imageID); err != nil {
		return "", fmt.Errorf("failed to add form field: %w", err)
	}
	if err := writer.WriteField("requireSignedURLs", "false"); err != nil {
		return "", fmt.Errorf("failed to add form field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/images/v1", c.apiURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("cloudflare returned non-OK status: %d, response: %s", resp.StatusCode, bodyBytes)
	}

	var response CloudflareImagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if !response.Success {
		return "", fmt.Errorf("cloudflare returned error: %v", response.Errors)
	}

	return c.VariantURL(response.Result.ID, VariantPublic), nil
}

func (c *CloudflareImages) Remove(ctx context.Context, locator string) error {
	imageID, err := ImageIDFromURL(locator)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/images/v1/%s", c.apiURL, c.accountID, url.PathEscape(imageID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("failed to delete image: %d", resp.StatusCode)
	}
	return nil
}

func (c *CloudflareImages) VariantURL(imageID, variant string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.deliveryURL, c.accountHash, imageID, variant)
}

// ImageIDFromURL extracts the durable image id from a delivery URL. The
// path is <account_hash>/<image_id...>/<variant>, optionally behind a
// custom domain's /cdn-cgi/imagedelivery prefix. The last segment is a
// named variant or a flexible transformation such as "w=400,h=300"; image
// ids may themselves contain slashes.
func ImageIDFromURL(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil || !u.IsAbs() {
		return "", unknownLocator(locator)
	}
	p := strings.Trim(u.Path, "/")
	p = strings.TrimPrefix(p, customDomainDelivery+"/")

	segments := strings.Split(p, "/")
	if len(segments) < 3 {
		return "", unknownLocator(locator)
	}
	imageID := strings.Join(segments[1:len(segments)-1], "/")
	if imageID == "" {
		return "", unknownLocator(locator)
	}
	return imageID, nil
}
