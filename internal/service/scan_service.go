package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"plate-lookup/internal/client"
	"plate-lookup/internal/domain/plate"
	"plate-lookup/internal/history"
	"plate-lookup/internal/utils"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoPlateFound = errors.New("no plate found")
)

// ScanService runs the two lookup flows end to end: remote call,
// normalization into a DetectionRecord, scan history append.
type ScanService struct {
	plates  *client.PlateClient
	history *history.Store
	log     zerolog.Logger
}

func NewScanService(plates *client.PlateClient, hist *history.Store, log zerolog.Logger) *ScanService {
	return &ScanService{
		plates:  plates,
		history: hist,
		log:     log,
	}
}

// ScanImage is the detection path: upload image bytes, take the first
// detected plate, record the lookup.
func (s *ScanService) ScanImage(ctx context.Context, image []byte, filename string) (*plate.DetectionRecord, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}

	resp, err := s.plates.DetectPlates(ctx, image, filename)
	if err != nil {
		s.log.Error().Err(err).Str("filename", filename).Msg("plate detection request failed")
		return nil, fmt.Errorf("detect plates: %w", err)
	}

	rec, err := RecordFromDetection(resp)
	if err != nil {
		s.log.Info().Str("filename", filename).Msg("no plate found in image")
		return nil, err
	}

	s.appendHistory(ctx, rec)

	s.log.Info().
		Str("plate", rec.PlateNumber).
		Float64("detection_confidence", rec.DetectionConfidence).
		Float64("ocr_confidence", rec.OCRConfidence).
		Int("violations", rec.Violations.ViolationCount).
		Msg("image scan complete")
	return rec, nil
}

// LookupPlate is the manual path: resolve a typed plate number to its
// violation and owner records, record the lookup. A 404 on either
// endpoint means "no record" and degrades to defaults.
func (s *ScanService) LookupPlate(ctx context.Context, rawPlate string) (*plate.DetectionRecord, error) {
	normalized := utils.NormalizePlate(rawPlate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: plate cannot be empty after normalization", ErrInvalidInput)
	}

	violations, err := s.plates.CheckViolations(ctx, normalized)
	if err != nil {
		if !client.IsNotFound(err) {
			s.log.Error().Err(err).Str("plate", normalized).Msg("violation lookup failed")
			return nil, fmt.Errorf("check violations: %w", err)
		}
		violations = nil
	}

	vehicle, err := s.plates.VehicleInfo(ctx, normalized)
	if err != nil {
		// Owner info is supplementary, the record degrades to found=false.
		s.log.Warn().Err(err).Str("plate", normalized).Msg("vehicle lookup failed, continuing without owner info")
		vehicle = nil
	}

	rec := RecordFromLookup(normalized, violations, vehicle)
	s.appendHistory(ctx, rec)

	s.log.Info().
		Str("plate", normalized).
		Str("raw_plate", rawPlate).
		Int("violations", rec.Violations.ViolationCount).
		Bool("owner_found", rec.Owner.Found).
		Msg("manual lookup complete")
	return rec, nil
}

// BatchOutcome is the per-file result of a directory scan.
type BatchOutcome struct {
	File   string
	Record *plate.DetectionRecord
	Err    error
}

// ScanDirectory scans every image file under dir with bounded
// concurrency. Per-file failures land in the outcome, they do not stop
// the batch.
func (s *ScanService) ScanDirectory(ctx context.Context, dir string, concurrent int) ([]BatchOutcome, error) {
	images, err := collectImages(dir)
	if err != nil {
		return nil, fmt.Errorf("collect images: %w", err)
	}
	if concurrent < 1 {
		concurrent = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrent)

	outcomes := make([]BatchOutcome, len(images))
	for i, path := range images {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				outcomes[i] = BatchOutcome{File: path, Err: fmt.Errorf("read image: %w", err)}
				return nil
			}
			rec, err := s.ScanImage(ctx, data, filepath.Base(path))
			outcomes[i] = BatchOutcome{File: path, Record: rec, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info().Int("total", len(outcomes)).Str("dir", dir).Msg("directory scan complete")
	return outcomes, nil
}

// History returns the scan log, most recent first.
func (s *ScanService) History(ctx context.Context) ([]plate.ScanLogEntry, error) {
	return s.history.ListAll(ctx)
}

// DeleteHistoryEntry removes one entry by its position in the
// displayed (sorted) history.
func (s *ScanService) DeleteHistoryEntry(ctx context.Context, index int) error {
	if err := s.history.DeleteAt(ctx, index); err != nil {
		if errors.Is(err, history.ErrIndexOutOfRange) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return err
	}
	s.log.Info().Int("index", index).Msg("deleted scan history entry")
	return nil
}

// ClearHistory wipes the whole scan log.
func (s *ScanService) ClearHistory(ctx context.Context) error {
	if err := s.history.ClearAll(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("cleared scan history")
	return nil
}

// A failed history write never fails the lookup that produced the
// record.
func (s *ScanService) appendHistory(ctx context.Context, rec *plate.DetectionRecord) {
	entry := plate.NewScanLogEntry(rec)
	if err := s.history.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("plate", rec.PlateNumber).Msg("failed to append scan history")
	}
}

func collectImages(dir string) ([]string, error) {
	var images []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isImageFile(path) {
			images = append(images, path)
		}
		return nil
	})
	return images, err
}

func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".webp"
}
