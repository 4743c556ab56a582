package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tones/internal/models"
	"tones/internal/xlog"
)

// PostgresStore is the production Store backed by gorm over the
// jackc/pgx stdlib driver, the way the teacher's main/db/db.go wires
// gorm.io/driver/postgres while db/postgres.go supplies the
// ON CONFLICT DO NOTHING dedup idiom this type generalizes via gorm's
// clause.OnConflict.
type PostgresStore struct {
	db *gorm.DB
}

// DSN builds a libpq-style connection string from discrete parts, the
// way the teacher's db.NewDBClient assembles one from env vars.
func DSN(host, port, user, pass, name, sslmode string) string {
	if sslmode == "" {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, sslmode)
}

// NewPostgresStore opens a connection and idempotently creates the
// schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, xlog.NewStoreError("open", err)
	}

	s := &PostgresStore{db: db}
	if err := s.CreateSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) CreateSchema() error {
	if err := s.db.AutoMigrate(&models.Tone{}, &models.AddressCouple{}); err != nil {
		return xlog.NewStoreError("create_schema", err)
	}
	return nil
}

func (s *PostgresStore) ToneExists(toneID uint32) (bool, error) {
	var count int64
	err := s.db.Model(&models.Tone{}).Where("tone_id = ?", toneID).Count(&count).Error
	if err != nil {
		return false, xlog.NewStoreError("tone_exists", err)
	}
	return count > 0, nil
}

func (s *PostgresStore) StoreTone(toneID uint32, name string) error {
	tone := models.Tone{ToneID: toneID, Name: name}
	err := s.db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tone_id"}}, DoNothing: true}).
		Create(&tone).Error
	if err != nil {
		return xlog.NewStoreError("store_tone", err)
	}
	return nil
}

func (s *PostgresStore) StoreAddressCouples(entries []models.AddressCouple) error {
	if len(entries) == 0 {
		return nil
	}

	const batchSize = 2000
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}, {Name: "couple"}},
		DoNothing: true,
	}).CreateInBatches(entries, batchSize).Error
	if err != nil {
		return xlog.NewStoreError("store_address_couples", err)
	}
	return nil
}

func (s *PostgresStore) LookupByAddress(address uint32) ([]uint64, error) {
	var rows []models.AddressCouple
	err := s.db.Where("address = ?", address).Find(&rows).Error
	if err != nil {
		return nil, xlog.NewStoreError("lookup_couples_by_address", err)
	}

	couples := make([]uint64, len(rows))
	for i, r := range rows {
		couples[i] = r.Couple
	}
	return couples, nil
}

func (s *PostgresStore) GetTone(toneID uint32) (models.Tone, bool, error) {
	var tone models.Tone
	err := s.db.Where("tone_id = ?", toneID).First(&tone).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Tone{}, false, nil
		}
		return models.Tone{}, false, xlog.NewStoreError("get_tone", err)
	}
	return tone, true, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return xlog.NewStoreError("close", err)
	}
	return sqlDB.Close()
}
