package cart

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cartRecord is the sqlite row holding one named cart snapshot.
type cartRecord struct {
	Name      string `gorm:"primaryKey"`
	Payload   []byte
	UpdatedAt time.Time
}

func (cartRecord) TableName() string {
	return "carts"
}

// SQLiteStorage persists cart snapshots in a local sqlite database. Useful
// when several named carts share one file, or when the host application
// already keeps its state in sqlite.
type SQLiteStorage struct {
	db   *gorm.DB
	name string
}

// NewSQLiteStorage opens (creating if needed) the sqlite database at path and
// binds the storage to the cart with the given name.
func NewSQLiteStorage(path, name string) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if err := db.AutoMigrate(&cartRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate carts table")
	}
	return &SQLiteStorage{db: db, name: name}, nil
}

// Load fetches and decodes the snapshot row. A missing row maps to
// ErrNoSnapshot.
func (s *SQLiteStorage) Load(ctx context.Context) (Snapshot, error) {
	var rec cartRecord
	err := s.db.WithContext(ctx).First(&rec, "name = ?", s.name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, errors.Wrap(err, "load cart row")
	}
	return DecodeSnapshot(rec.Payload)
}

// Save upserts the snapshot row for this cart name.
func (s *SQLiteStorage) Save(ctx context.Context, snap Snapshot) error {
	rec := cartRecord{
		Name:      s.name,
		Payload:   EncodeSnapshot(snap),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	return errors.Wrap(err, "save cart row")
}
