package service

import (
	"fmt"

	"plate-lookup/internal/client"
	"plate-lookup/internal/domain/plate"
)

// RecordFromDetection builds the unified record from an image-path
// response. Only the first detected plate is used; the multi-plate
// policy is a pending product decision, so additional detections are
// dropped. An absent or empty plate list yields ErrNoPlateFound.
func RecordFromDetection(resp *client.DetectPlatesResponse) (*plate.DetectionRecord, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: missing detection response", ErrNoPlateFound)
	}
	if len(resp.PlatesDetected) == 0 {
		return nil, fmt.Errorf("%w: no plates in image", ErrNoPlateFound)
	}

	d := resp.PlatesDetected[0]
	rec := &plate.DetectionRecord{
		PlateNumber:         d.PlateNumber,
		DetectionConfidence: d.DetectionConfidence,
		OCRConfidence:       d.OCRConfidence,
		CroppedPlateImage:   d.CroppedPlateImage,
		Violations:          summaryFromDetection(d.Violations),
		Owner:               ownerFromPayload(d.OwnerInfo),
		Source:              plate.SourceCamera,
	}
	if d.BBox != nil {
		rec.BBox = &plate.BBox{
			X1:         d.BBox.X1,
			Y1:         d.BBox.Y1,
			X2:         d.BBox.X2,
			Y2:         d.BBox.Y2,
			Confidence: d.BBox.Confidence,
		}
	}
	if d.AlertStatus != nil {
		rec.Alert = plate.AlertStatus{
			IsFlagged:  d.AlertStatus.IsFlagged,
			AlertLevel: d.AlertStatus.AlertLevel,
			Message:    d.AlertStatus.Message,
		}
		if rec.Alert.AlertLevel == "" {
			rec.Alert.AlertLevel = plate.AlertLevelNormal
		}
	} else {
		rec.Alert = plate.DeriveAlert(rec.Violations.ViolationCount)
	}
	return rec, nil
}

// RecordFromLookup synthesizes the unified record for a typed plate
// number. There is no vision uncertainty, so both confidences are
// fixed at 1.0 and the cropped image reference stays empty. Either
// response may be nil; every missing field falls back to its
// type-appropriate default.
func RecordFromLookup(plateNumber string, violations *client.ViolationsCheckResponse, vehicle *client.VehicleInfoResponse) *plate.DetectionRecord {
	summary := plate.ViolationSummary{Details: []plate.ViolationDetail{}}
	if violations != nil {
		summary.ViolationCount = max(violations.ViolationCount, 0)
		summary.TotalFine = violations.TotalFine
		summary.LastViolationDate = strOrEmpty(violations.LastViolation)
		for _, v := range violations.Violations {
			summary.Details = append(summary.Details, plate.ViolationDetail{
				ID:          v.ID,
				Type:        v.ViolationType,
				Date:        v.ViolationDate,
				Location:    strOrEmpty(v.Location),
				FineAmount:  floatOrZero(v.FineAmount),
				IsPaid:      v.IsPaid,
				Description: strOrEmpty(v.Description),
				Speed:       v.Speed,
				SpeedLimit:  v.SpeedLimit,
			})
		}
	}

	owner := plate.OwnerInfo{}
	if vehicle != nil && vehicle.Found {
		owner = plate.OwnerInfo{
			Found:        true,
			OwnerName:    strOrEmpty(vehicle.OwnerName),
			OwnerPhone:   strOrEmpty(vehicle.OwnerPhone),
			OwnerEmail:   strOrEmpty(vehicle.OwnerEmail),
			VehicleType:  strOrEmpty(vehicle.VehicleType),
			VehicleColor: strOrEmpty(vehicle.VehicleColor),
			IsActive:     boolOr(vehicle.IsActive, true),
		}
	}

	return &plate.DetectionRecord{
		PlateNumber:         plateNumber,
		DetectionConfidence: 1.0,
		OCRConfidence:       1.0,
		Violations:          summary,
		Owner:               owner,
		Alert:               plate.DeriveAlert(summary.ViolationCount),
		Source:              plate.SourceManual,
	}
}

func summaryFromDetection(p *client.ViolationsPayload) plate.ViolationSummary {
	summary := plate.ViolationSummary{Details: []plate.ViolationDetail{}}
	if p == nil {
		return summary
	}
	summary.ViolationCount = max(p.ViolationCount, 0)
	summary.TotalFine = p.TotalFine
	summary.LastViolationDate = strOrEmpty(p.LastViolationDate)
	for _, v := range p.ViolationDetails {
		summary.Details = append(summary.Details, plate.ViolationDetail{
			ID:          v.ID,
			Type:        v.Type,
			Date:        v.Date,
			Location:    strOrEmpty(v.Location),
			FineAmount:  v.FineAmount,
			IsPaid:      v.IsPaid,
			Description: strOrEmpty(v.Description),
			Speed:       v.Speed,
			SpeedLimit:  v.SpeedLimit,
		})
	}
	return summary
}

func ownerFromPayload(p *client.OwnerPayload) plate.OwnerInfo {
	if p == nil || !p.Found {
		return plate.OwnerInfo{}
	}
	return plate.OwnerInfo{
		Found:        true,
		OwnerName:    strOrEmpty(p.OwnerName),
		OwnerPhone:   strOrEmpty(p.OwnerPhone),
		OwnerEmail:   strOrEmpty(p.OwnerEmail),
		VehicleType:  strOrEmpty(p.VehicleType),
		VehicleColor: strOrEmpty(p.VehicleColor),
		IsActive:     boolOr(p.IsActive, true),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
