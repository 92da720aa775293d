package client

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"plate-lookup/internal/domain/detect"
)

// DetectionClient talks to the raw object-detection service (health,
// model metadata, predict, stored result images). Same error contract
// as PlateClient.
type DetectionClient struct {
	core           httpCore
	requestTimeout time.Duration
	predictTimeout time.Duration
}

func NewDetectionClient(baseURL string, requestTimeout, predictTimeout time.Duration, log zerolog.Logger) *DetectionClient {
	return &DetectionClient{
		core:           newHTTPCore(baseURL, log),
		requestTimeout: requestTimeout,
		predictTimeout: predictTimeout,
	}
}

func (c *DetectionClient) Health(ctx context.Context) (*detect.HealthStatus, error) {
	var resp detect.HealthStatus
	if err := c.core.getJSON(ctx, "health check", "/health", c.requestTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *DetectionClient) GPUInfo(ctx context.Context) (*detect.GPUInfo, error) {
	var resp detect.GPUInfo
	if err := c.core.getJSON(ctx, "gpu info", "/gpu-info", c.requestTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *DetectionClient) ModelInfo(ctx context.Context) (*detect.ModelInfo, error) {
	var resp detect.ModelInfo
	if err := c.core.getJSON(ctx, "model info", "/model-info", c.requestTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Predict runs detection on a single image.
func (c *DetectionClient) Predict(ctx context.Context, image []byte, filename string) (*detect.PredictionResult, error) {
	if filename == "" {
		filename = "upload.jpg"
	}
	var resp detect.PredictionResult
	err := c.core.postMultipart(ctx, "predict", "/predict", c.predictTimeout,
		[]filePart{{Field: "file", Filename: filename, Data: image}}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchImage is one named image in a batch prediction request.
type BatchImage struct {
	Name string
	Data []byte
}

// PredictBatch runs detection on several images in one request. The
// per-file results come back in upload order.
func (c *DetectionClient) PredictBatch(ctx context.Context, images []BatchImage) (*detect.BatchPredictionResult, error) {
	parts := make([]filePart, 0, len(images))
	for _, img := range images {
		parts = append(parts, filePart{Field: "files", Filename: img.Name, Data: img.Data})
	}
	var resp detect.BatchPredictionResult
	if err := c.core.postMultipart(ctx, "predict batch", "/predict-batch", c.predictTimeout, parts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListResults lists stored result images, most recent first.
func (c *DetectionClient) ListResults(ctx context.Context) (*detect.ResultsList, error) {
	var resp detect.ResultsList
	if err := c.core.getJSON(ctx, "list results", "/results", c.requestTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchResult downloads a stored result image.
func (c *DetectionClient) FetchResult(ctx context.Context, filename string) ([]byte, error) {
	path := "/results/" + url.PathEscape(filename)
	return c.core.getBytes(ctx, "fetch result", path, c.predictTimeout)
}

// ClearResults deletes all stored result images on the service.
func (c *DetectionClient) ClearResults(ctx context.Context) error {
	return c.core.postEmpty(ctx, "clear results", "/clear-results", c.requestTimeout, nil)
}
