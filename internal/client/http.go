package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// filePart is one file attached to a multipart upload.
type filePart struct {
	Field    string
	Filename string
	Data     []byte
}

// httpCore is the request plumbing shared by both remote clients. Every
// call is bounded by a per-operation-class timeout and maps failures to
// *Error.
type httpCore struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func newHTTPCore(baseURL string, log zerolog.Logger) httpCore {
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return httpCore{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport},
		log:     log,
	}
}

func (c httpCore) url(path string) string {
	return c.baseURL + path
}

func (c httpCore) getJSON(ctx context.Context, op, path string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	return c.send(op, req, out)
}

func (c httpCore) getBytes(ctx context.Context, op, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logStatus(op, resp)
		return nil, &Error{Op: op, Kind: KindStatus, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindTransport, Err: err}
	}
	return data, nil
}

func (c httpCore) postEmpty(ctx context.Context, op, path string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), nil)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	return c.send(op, req, out)
}

func (c httpCore) postMultipart(ctx context.Context, op, path string, timeout time.Duration, parts []filePart, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range parts {
		fw, err := mw.CreateFormFile(part.Field, part.Filename)
		if err != nil {
			return &Error{Op: op, Kind: KindTransport, Err: err}
		}
		if _, err := fw.Write(part.Data); err != nil {
			return &Error{Op: op, Kind: KindTransport, Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &body)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.send(op, req, out)
}

func (c httpCore) send(op string, req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logStatus(op, resp)
		return &Error{Op: op, Kind: KindStatus, Status: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Err: err}
	}
	return nil
}

func (c httpCore) logStatus(op string, resp *http.Response) {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Str("body", string(snippet)).
		Msg("request returned non-success status")
}
