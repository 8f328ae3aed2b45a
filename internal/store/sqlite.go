package store

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Aniela13/card-scanner/internal/models"
)

// entry is one row of the key/value table backing the collection.
type entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value []byte `gorm:"column:value"`
}

func (entry) TableName() string {
	return "entries"
}

// SQLiteCollection implements Collection on a SQLite key/value table.
type SQLiteCollection struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at dbPath and migrates the
// key/value schema.
func Open(dbPath string) (*SQLiteCollection, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteCollection{db: db}, nil
}

// NewWithDB wraps an existing gorm handle. Used by tests with an
// in-memory database.
func NewWithDB(db *gorm.DB) (*SQLiteCollection, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteCollection{db: db}, nil
}

func (s *SQLiteCollection) LoadAll() ([]models.Card, int, error) {
	var rows []entry
	if err := s.db.Where("key LIKE ?", KeyPrefix+"%").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: list entries: %v", ErrPersistence, err)
	}

	cards := make([]models.Card, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		var card models.Card
		if err := json.Unmarshal(row.Value, &card); err != nil {
			// An undecodable entry is skipped rather than failing the
			// whole listing. The count is surfaced so silent data loss
			// is at least visible.
			log.Printf("skipping undecodable entry %s: %v", row.Key, err)
			skipped++
			continue
		}
		cards = append(cards, card)
	}
	return cards, skipped, nil
}

func (s *SQLiteCollection) Save(card models.Card) error {
	value, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("%w: encode card %s: %v", ErrPersistence, card.ID, err)
	}

	// Upsert: a repeat save with the same id overwrites.
	row := entry{Key: KeyPrefix + card.ID, Value: value}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: write card %s: %v", ErrPersistence, card.ID, err)
	}
	return nil
}

func (s *SQLiteCollection) Delete(id string) error {
	if err := s.db.Delete(&entry{}, "key = ?", KeyPrefix+id).Error; err != nil {
		return fmt.Errorf("%w: delete card %s: %v", ErrPersistence, id, err)
	}
	return nil
}
