package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plate-lookup/internal/domain/plate"
)

const defaultSlotName = "scan_log"

var ErrIndexOutOfRange = errors.New("history index out of range")

// slot is the single durable row holding the whole scan log: an
// ordered JSON array of serialized entry strings. Storage order is
// append order, the sorted view is built at read time.
type slot struct {
	Name      string         `gorm:"primaryKey"`
	Entries   datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (slot) TableName() string { return "scan_history" }

// Store persists the scan log. Read-modify-write on the slot is
// serialized in-process; the store is single-user by contract.
type Store struct {
	db         *gorm.DB
	slotName   string
	maxEntries int
	log        zerolog.Logger
	mu         sync.Mutex
}

// NewStore wraps db as a scan history store. maxEntries bounds the
// log, oldest entries are trimmed past it; 0 means unbounded.
func NewStore(db *gorm.DB, maxEntries int, log zerolog.Logger) *Store {
	return &Store{
		db:         db,
		slotName:   defaultSlotName,
		maxEntries: maxEntries,
		log:        log,
	}
}

// Append serializes entry and persists it at the end of the log before
// returning.
func (s *Store) Append(ctx context.Context, entry plate.ScanLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serialize history entry: %w", err)
	}
	raw = append(raw, string(data))
	if s.maxEntries > 0 && len(raw) > s.maxEntries {
		raw = raw[len(raw)-s.maxEntries:]
	}
	return s.saveRaw(ctx, raw)
}

// ListAll returns every readable entry sorted most recent first. A
// malformed stored entry is skipped and logged, never aborts the
// listing.
func (s *Store) ListAll(ctx context.Context) ([]plate.ScanLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(ctx)
	if err != nil {
		return nil, err
	}

	dec := s.decodeAll(raw)
	entries := make([]plate.ScanLogEntry, 0, len(dec))
	for _, d := range dec {
		entries = append(entries, d.entry)
	}
	return entries, nil
}

// DeleteAt removes the entry at index in the currently displayed view,
// i.e. the timestamp-sorted, corruption-filtered list ListAll returns.
func (s *Store) DeleteAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.loadRaw(ctx)
	if err != nil {
		return err
	}

	dec := s.decodeAll(raw)
	if index < 0 || index >= len(dec) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	pos := dec[index].pos
	raw = append(raw[:pos], raw[pos+1:]...)
	return s.saveRaw(ctx, raw)
}

// ClearAll removes the whole persisted log.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).
		Where("name = ?", s.slotName).
		Delete(&slot{}).Error
}

type decoded struct {
	entry plate.ScanLogEntry
	pos   int
}

func (s *Store) decodeAll(raw []string) []decoded {
	out := make([]decoded, 0, len(raw))
	for i, r := range raw {
		var e plate.ScanLogEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			s.log.Warn().
				Err(err).
				Int("position", i).
				Msg("skipping malformed scan history entry")
			continue
		}
		out = append(out, decoded{entry: e, pos: i})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].entry.ScanTime.After(out[j].entry.ScanTime)
	})
	return out
}

func (s *Store) loadRaw(ctx context.Context) ([]string, error) {
	var row slot
	err := s.db.WithContext(ctx).Where("name = ?", s.slotName).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history slot: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(row.Entries, &raw); err != nil {
		return nil, fmt.Errorf("history slot unreadable: %w", err)
	}
	return raw, nil
}

func (s *Store) saveRaw(ctx context.Context, raw []string) error {
	if raw == nil {
		raw = []string{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("serialize history slot: %w", err)
	}

	row := slot{
		Name:      s.slotName,
		Entries:   datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"entries", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("write history slot: %w", err)
	}
	return nil
}
