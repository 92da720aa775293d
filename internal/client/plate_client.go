package client

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// PlateClient talks to the plate detection and violation lookup
// endpoints. Metadata lookups use the short request timeout, image
// uploads use the longer detect timeout.
type PlateClient struct {
	core           httpCore
	requestTimeout time.Duration
	detectTimeout  time.Duration
}

func NewPlateClient(baseURL string, requestTimeout, detectTimeout time.Duration, log zerolog.Logger) *PlateClient {
	return &PlateClient{
		core:           newHTTPCore(baseURL, log),
		requestTimeout: requestTimeout,
		detectTimeout:  detectTimeout,
	}
}

// DetectPlates uploads an image for plate detection plus violation and
// owner lookup in one call.
func (c *PlateClient) DetectPlates(ctx context.Context, image []byte, filename string) (*DetectPlatesResponse, error) {
	if filename == "" {
		filename = "upload.jpg"
	}
	var resp DetectPlatesResponse
	err := c.core.postMultipart(ctx, "detect plates", "/detect-plates", c.detectTimeout,
		[]filePart{{Field: "file", Filename: filename, Data: image}}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckViolations looks up the violation record for a plate number.
func (c *PlateClient) CheckViolations(ctx context.Context, plateNumber string) (*ViolationsCheckResponse, error) {
	var resp ViolationsCheckResponse
	path := "/violations/check/" + url.PathEscape(plateNumber)
	if err := c.core.getJSON(ctx, "check violations", path, c.requestTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VehicleInfo looks up the registered owner for a plate number.
func (c *PlateClient) VehicleInfo(ctx context.Context, plateNumber string) (*VehicleInfoResponse, error) {
	var resp VehicleInfoResponse
	path := "/vehicles/info/" + url.PathEscape(plateNumber)
	if err := c.core.getJSON(ctx, "vehicle info", path, c.requestTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CroppedPlateURL builds the URL serving a cropped plate image. Pure
// string construction, no I/O.
func (c *PlateClient) CroppedPlateURL(filename string) string {
	return c.core.url("/cropped-plate/" + url.PathEscape(filename))
}

// FetchCroppedPlate downloads the cropped plate image bytes.
func (c *PlateClient) FetchCroppedPlate(ctx context.Context, filename string) ([]byte, error) {
	path := "/cropped-plate/" + url.PathEscape(filename)
	return c.core.getBytes(ctx, "fetch cropped plate", path, c.detectTimeout)
}
