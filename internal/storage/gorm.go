package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Raincor5/kitchen-system/internal/labelparse"
)

// labelRow is the database representation of a stored label. The parsed
// fields travel as a JSON document so parser changes need no migrations.
type labelRow struct {
	LabelID    string `gorm:"primaryKey;size:128"`
	RawText    string
	ParsedJSON []byte `gorm:"type:jsonb"`
	Confidence float64
	Timestamp  time.Time `gorm:"index"`
}

func (labelRow) TableName() string { return "labels" }

// GormStore persists labels in PostgreSQL.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormStore connects to the database and runs migrations.
func NewGormStore(dsn string, logger *slog.Logger) (*GormStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to label database: %w", err)
	}
	if err := db.AutoMigrate(&labelRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate label schema: %w", err)
	}
	return &GormStore{db: db, logger: logger.With("component", "storage")}, nil
}

func toRow(label StoredLabel) (labelRow, error) {
	parsed, err := json.Marshal(label.Parsed)
	if err != nil {
		return labelRow{}, fmt.Errorf("failed to serialize parsed label: %w", err)
	}
	return labelRow{
		LabelID:    label.LabelID,
		RawText:    label.RawText,
		ParsedJSON: parsed,
		Confidence: label.Confidence,
		Timestamp:  label.Timestamp,
	}, nil
}

func fromRow(row labelRow) StoredLabel {
	var parsed labelparse.ParsedLabel
	// Rows written by older versions may hold fields we no longer know;
	// unknown fields are dropped silently.
	_ = json.Unmarshal(row.ParsedJSON, &parsed)
	return StoredLabel{
		LabelID:    row.LabelID,
		RawText:    row.RawText,
		Parsed:     parsed,
		Confidence: row.Confidence,
		Timestamp:  row.Timestamp,
	}
}

// Save implements Store.
func (s *GormStore) Save(ctx context.Context, label StoredLabel) error {
	row, err := toRow(label)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save label %s: %w", label.LabelID, err)
	}
	return nil
}

// Get implements Store.
func (s *GormStore) Get(ctx context.Context, labelID string) (StoredLabel, bool, error) {
	var row labelRow
	err := s.db.WithContext(ctx).First(&row, "label_id = ?", labelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StoredLabel{}, false, nil
	}
	if err != nil {
		return StoredLabel{}, false, fmt.Errorf("failed to load label %s: %w", labelID, err)
	}
	return fromRow(row), true, nil
}

// List implements Store. Labels are returned newest first.
func (s *GormStore) List(ctx context.Context) ([]StoredLabel, error) {
	var rows []labelRow
	err := s.db.WithContext(ctx).Order("timestamp desc, label_id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	out := make([]StoredLabel, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

// Delete implements Store.
func (s *GormStore) Delete(ctx context.Context, labelID string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&labelRow{}, "label_id = ?", labelID)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete label %s: %w", labelID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
