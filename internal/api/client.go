// Package api is the HTTP client for the three consumed backend services:
// crop lookup, verification status, and verification submission.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cropproof/internal/config"
	"cropproof/internal/domain"
)

// Client talks to the crop and verification services.
type Client struct {
	CropBaseURL   string
	StatusBaseURL string
	SubmitURL     string
	HTTPClient    *http.Client
	Timeout       time.Duration
	Now           func() time.Time
}

// New creates a client with sane defaults from config.
func New(cfg *config.Config) *Client {
	return &Client{
		CropBaseURL:   cfg.Services.CropAPI,
		StatusBaseURL: cfg.Services.Status,
		SubmitURL:     cfg.Services.Submit,
		Timeout:       30 * time.Second,
	}
}

// CropRecord is the crop service's listing payload (partial).
type CropRecord struct {
	ID               string      `json:"id"`
	CropName         string      `json:"cropName"`
	Quantity         json.Number `json:"quantity,omitempty"`
	Measure          string      `json:"measure,omitempty"`
	MaizeVariety     string      `json:"maizeVariety,omitempty"`
	OtherVarietyName string      `json:"otherVarietyName,omitempty"`
	MoisturePercent  json.Number `json:"moisturePercent,omitempty"`
	WillYouDryIt     *bool       `json:"willYouDryIt,omitempty"`
	Farm             Farm        `json:"farm"`
}

// Farm nests location and owner data inside a crop record.
type Farm struct {
	Village     string   `json:"village,omitempty"`
	Taluk       string   `json:"taluk,omitempty"`
	District    string   `json:"district,omitempty"`
	Coordinates *GeoJSON `json:"coordinates,omitempty"`
	User        FarmUser `json:"user"`
}

// GeoJSON is the farm coordinate envelope; Coordinates is [lng, lat].
type GeoJSON struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// FarmUser is the listing owner.
type FarmUser struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// StatusResult is the verification-status service's payload.
type StatusResult struct {
	HasVerification bool
	CanSubmit       bool
	Status          string
	VerificationID  string
	BlockMessage    string
}

// SubmissionRequest carries everything the multipart submit needs. Photos
// are the ordered, already-compressed JPEG binaries.
type SubmissionRequest struct {
	CropID   string
	FullName string
	Phone    string
	Village  string
	Taluk    string
	District string
	Quantity string
	Variety  string
	Moisture string
	WillDry  string
	Location *domain.GeoPoint
	Photos   [][]byte
}

// SubmissionResult is the accepted-submission payload.
type SubmissionResult struct {
	RequestID      string
	IsResubmission bool
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Message extracts the service's message field from the response body, if
// any.
func (e *APIError) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return ""
	}
	return body.Message
}

// CropByID fetches one listing: GET /crop/get-crop-by-id/{id}.
func (c *Client) CropByID(ctx context.Context, cropID string) (CropRecord, error) {
	endpoint := fmt.Sprintf("%s/crop/get-crop-by-id/%s", strings.TrimRight(c.CropBaseURL, "/"), url.PathEscape(cropID))
	return c.fetchCrop(ctx, endpoint)
}

// CropByOwner fetches a listing by owner and crop name, the second lookup
// route the crop service exposes.
func (c *Client) CropByOwner(ctx context.Context, ownerID, cropName string) (CropRecord, error) {
	endpoint := fmt.Sprintf("%s/crop/get-crop-by-user/%s?cropName=%s",
		strings.TrimRight(c.CropBaseURL, "/"), url.PathEscape(ownerID), url.QueryEscape(cropName))
	return c.fetchCrop(ctx, endpoint)
}

func (c *Client) fetchCrop(ctx context.Context, endpoint string) (CropRecord, error) {
	var envelope struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    *CropRecord `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return CropRecord{}, err
	}
	if envelope.Code != 200 || envelope.Data == nil {
		return CropRecord{}, fmt.Errorf("crop lookup: code=%d message=%s", envelope.Code, envelope.Message)
	}
	return *envelope.Data, nil
}

// CurrentStatus fetches the owner's verification status:
// GET {status}/{ownerId}/current-status.
func (c *Client) CurrentStatus(ctx context.Context, ownerID string) (StatusResult, error) {
	endpoint := fmt.Sprintf("%s/%s/current-status", strings.TrimRight(c.StatusBaseURL, "/"), url.PathEscape(ownerID))
	var envelope struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
		Data       *struct {
			HasVerification bool `json:"hasVerification"`
			CanSubmit       bool `json:"canSubmit"`
			Verification    *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"verification"`
			BlockMessage string `json:"blockMessage"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return StatusResult{}, err
	}
	if envelope.StatusCode != 200 || envelope.Data == nil {
		return StatusResult{}, fmt.Errorf("status lookup: statusCode=%d message=%s", envelope.StatusCode, envelope.Message)
	}
	out := StatusResult{
		HasVerification: envelope.Data.HasVerification,
		CanSubmit:       envelope.Data.CanSubmit,
		BlockMessage:    envelope.Data.BlockMessage,
	}
	if v := envelope.Data.Verification; v != nil {
		out.Status = v.Status
		out.VerificationID = v.ID
	}
	return out, nil
}

// SubmitVerification transmits one multipart submission. Non-2xx responses
// come back as *APIError so the caller can branch on the status code; the
// request is sent exactly once.
func (c *Client) SubmitVerification(ctx context.Context, req SubmissionRequest) (SubmissionResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"cropId", req.CropID},
		{"fullName", req.FullName},
		{"phone", req.Phone},
		{"village", req.Village},
		{"taluk", req.Taluk},
		{"district", req.District},
		{"quantity", req.Quantity},
		{"variety", req.Variety},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return SubmissionResult{}, err
		}
	}
	if req.Moisture != "" {
		if err := mw.WriteField("moisture", req.Moisture); err != nil {
			return SubmissionResult{}, err
		}
	}
	if req.WillDry != "" {
		if err := mw.WriteField("willDry", req.WillDry); err != nil {
			return SubmissionResult{}, err
		}
	}
	loc, err := json.Marshal(req.Location)
	if err != nil {
		return SubmissionResult{}, err
	}
	if err := mw.WriteField("location", string(loc)); err != nil {
		return SubmissionResult{}, err
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	for _, photo := range req.Photos {
		part, err := mw.CreateFormFile("photos", fmt.Sprintf("photo-%d.jpg", now().UnixMilli()))
		if err != nil {
			return SubmissionResult{}, err
		}
		if _, err := part.Write(photo); err != nil {
			return SubmissionResult{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return SubmissionResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SubmitURL, &buf)
	if err != nil {
		return SubmissionResult{}, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.client().Do(httpReq)
	if err != nil {
		return SubmissionResult{}, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SubmissionResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	var envelope struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
		Data       *struct {
			ID             string `json:"id"`
			IsResubmission bool   `json:"isResubmission"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return SubmissionResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if envelope.StatusCode != 200 {
		return SubmissionResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	out := SubmissionResult{}
	if envelope.Data != nil {
		out.RequestID = envelope.Data.ID
		out.IsResubmission = envelope.Data.IsResubmission
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) client() *http.Client {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c.HTTPClient
}
