package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/upstream"
)

const (
	serviceName         = "AI service"
	genericUpstreamMsg  = "AI service returned an error"
	unreachableMsg      = "Failed to reach AI service"
	maxResponseBodySize = 16 << 20
)

// Remote forwards analysis requests to an external HTTP service with the
// same contract as the stub.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote creates a forwarding analyzer. A nil client selects
// upstream.NewHTTPClient with its default timeout.
func NewRemote(endpoint string, client *http.Client) *Remote {
	if client == nil {
		client = upstream.NewHTTPClient(0)
	}
	return &Remote{endpoint: endpoint, client: client}
}

// Analyze posts the request once. Transport failures and non-2xx statuses
// become *upstream.Error; incomplete bodies become ErrMalformedResponse.
func (r *Remote) Analyze(ctx context.Context, req *Request) (*model.AnalysisResult, error) {
	body, contentType, err := encodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", upstream.UserAgent)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, &upstream.Error{Service: serviceName, Message: unreachableMsg, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &upstream.Error{Service: serviceName, Message: unreachableMsg, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &upstream.Error{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    upstream.ErrorMessage(respBody, genericUpstreamMsg),
			Details:    upstream.Details(respBody),
		}
	}

	var raw RawResult
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return Normalize(&raw)
}

// encodeRequest builds a multipart form for uploaded files and a JSON body
// for content referenced by URL.
func encodeRequest(req *Request) (io.Reader, string, error) {
	if !req.IsUpload() {
		payload := map[string]string{
			"fileUrl":         req.FileURL,
			"fileType":        req.FileType,
			"userDescription": req.UserDescription,
			"title":           req.Title,
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.FileName))
	fileType := req.FileType
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	header.Set("Content-Type", fileType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("title", req.Title); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("userDescription", req.UserDescription); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}
