package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// newPlateBackend mirrors the routes and JSON shapes of the real
// lookup service closely enough for client round-trip tests.
func newPlateBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/detect-plates", func(c *gin.Context) {
		if _, err := c.FormFile("file"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"timestamp":   "2026-01-15T09:30:00",
			"image_shape": []int{720, 1280, 3},
			"plates_detected": []gin.H{
				{
					"id":                   0,
					"plate_number":         "ABC1234",
					"detection_confidence": 0.91,
					"ocr_confidence":       0.84,
					"cropped_plate_image":  "plate_0_20260115_093000.jpg",
					"bbox":                 gin.H{"x1": 10.0, "y1": 20.0, "x2": 110.0, "y2": 60.0, "confidence": 0.91},
					"violations": gin.H{
						"has_violations":  true,
						"violation_count": 2,
						"total_fine":      1000.0,
						"is_flagged":      true,
						"violation_details": []gin.H{
							{"id": 1, "type": "Speeding", "date": "2025-12-10T00:00:00", "fine_amount": 500.0, "is_paid": false},
							{"id": 2, "type": "Parking", "date": "2025-11-02T00:00:00", "fine_amount": 500.0, "is_paid": true},
						},
					},
					"owner_info": gin.H{
						"found":      true,
						"owner_name": "Juan Dela Cruz",
						"is_active":  true,
					},
					"alert_status": gin.H{
						"is_flagged":  true,
						"alert_level": "high",
						"message":     "⚠️ 2 violations found",
					},
				},
			},
			"total_plates":    1,
			"segmented_image": "plate_detection_20260115_093000.jpg",
		})
	})

	r.GET("/violations/check/:plate", func(c *gin.Context) {
		plate := c.Param("plate")
		if plate == "MISSING1" {
			c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"plate_number":    plate,
			"has_violations":  true,
			"violation_count": 3,
			"total_fine":      1500.0,
			"violations": []gin.H{
				{"id": 10, "plate_number": plate, "violation_type": "Speeding", "violation_date": "2025-12-10T00:00:00", "fine_amount": 500.0, "is_paid": false},
			},
		})
	})

	r.GET("/vehicles/info/:plate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"found":        true,
			"plate_number": c.Param("plate"),
			"owner_name":   "Juan Dela Cruz",
			"vehicle_type": "sedan",
			"is_active":    true,
		})
	})

	r.GET("/cropped-plate/:filename", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/jpeg", []byte("jpeg-bytes"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestDetectPlates(t *testing.T) {
	srv := newPlateBackend(t)
	c := NewPlateClient(srv.URL, 5*time.Second, 5*time.Second, zerolog.Nop())

	resp, err := c.DetectPlates(context.Background(), []byte("fake image"), "car.jpg")
	if err != nil {
		t.Fatalf("DetectPlates: %v", err)
	}
	if !resp.Success || resp.TotalPlates != 1 {
		t.Errorf("success=%v total=%d", resp.Success, resp.TotalPlates)
	}
	if len(resp.PlatesDetected) != 1 {
		t.Fatalf("plates = %d, want 1", len(resp.PlatesDetected))
	}
	d := resp.PlatesDetected[0]
	if d.PlateNumber != "ABC1234" || d.DetectionConfidence != 0.91 {
		t.Errorf("detection = %+v", d)
	}
	if d.Violations == nil || d.Violations.ViolationCount != 2 {
		t.Errorf("violations = %+v", d.Violations)
	}
	if d.OwnerInfo == nil || d.OwnerInfo.OwnerName == nil || *d.OwnerInfo.OwnerName != "Juan Dela Cruz" {
		t.Errorf("owner = %+v", d.OwnerInfo)
	}
	if d.AlertStatus == nil || d.AlertStatus.AlertLevel != "high" {
		t.Errorf("alert = %+v", d.AlertStatus)
	}
}

func TestCheckViolations(t *testing.T) {
	srv := newPlateBackend(t)
	c := NewPlateClient(srv.URL, 5*time.Second, 5*time.Second, zerolog.Nop())

	resp, err := c.CheckViolations(context.Background(), "ABC1234")
	if err != nil {
		t.Fatalf("CheckViolations: %v", err)
	}
	if resp.ViolationCount != 3 || resp.TotalFine != 1500 {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Violations) != 1 || resp.Violations[0].ViolationType != "Speeding" {
		t.Errorf("violations = %+v", resp.Violations)
	}
}

func TestCheckViolationsNotFound(t *testing.T) {
	srv := newPlateBackend(t)
	c := NewPlateClient(srv.URL, 5*time.Second, 5*time.Second, zerolog.Nop())

	_, err := c.CheckViolations(context.Background(), "MISSING1")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
}

func TestVehicleInfo(t *testing.T) {
	srv := newPlateBackend(t)
	c := NewPlateClient(srv.URL, 5*time.Second, 5*time.Second, zerolog.Nop())

	resp, err := c.VehicleInfo(context.Background(), "ABC1234")
	if err != nil {
		t.Fatalf("VehicleInfo: %v", err)
	}
	if !resp.Found || resp.OwnerName == nil || *resp.OwnerName != "Juan Dela Cruz" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCroppedPlateURLEscapesFilename(t *testing.T) {
	c := NewPlateClient("http://host:8000", time.Second, time.Second, zerolog.Nop())

	got := c.CroppedPlateURL("plate 0/..%.jpg")
	if strings.Contains(got, " ") || strings.Contains(got, "/..") {
		t.Errorf("URL not escaped: %q", got)
	}
	if !strings.HasPrefix(got, "http://host:8000/cropped-plate/") {
		t.Errorf("URL = %q", got)
	}
}

func TestFetchCroppedPlate(t *testing.T) {
	srv := newPlateBackend(t)
	c := NewPlateClient(srv.URL, 5*time.Second, 5*time.Second, zerolog.Nop())

	data, err := c.FetchCroppedPlate(context.Background(), "plate_0.jpg")
	if err != nil {
		t.Fatalf("FetchCroppedPlate: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestErrorKinds(t *testing.T) {
	t.Run("status error carries the code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		c := NewPlateClient(srv.URL, time.Second, time.Second, zerolog.Nop())
		_, err := c.CheckViolations(context.Background(), "ABC1234")

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindStatus || apiErr.Status != http.StatusInternalServerError {
			t.Errorf("err = %#v", err)
		}
	})

	t.Run("timeout is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)

		c := NewPlateClient(srv.URL, 50*time.Millisecond, 50*time.Millisecond, zerolog.Nop())
		_, err := c.CheckViolations(context.Background(), "ABC1234")

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindTransport {
			t.Errorf("err = %#v", err)
		}
	})

	t.Run("bad body is a decode error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{not json"))
		}))
		t.Cleanup(srv.Close)

		c := NewPlateClient(srv.URL, time.Second, time.Second, zerolog.Nop())
		_, err := c.CheckViolations(context.Background(), "ABC1234")

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindDecode {
			t.Errorf("err = %#v", err)
		}
	})
}
