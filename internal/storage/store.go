// Package storage хранит сохранения кампании в SQLite и журнал
// команд для реплеев.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"

	_ "modernc.org/sqlite"
)

// ErrSlotEmpty возвращается при загрузке пустого слота.
var ErrSlotEmpty = errors.New("save slot is empty")

// Store - обертка над базой сохранений.
type Store struct {
	db *sql.DB
}

// SlotRecord - одно сохранение кампании. Payload - JSON кампании,
// собранный движком; база его не интерпретирует.
type SlotRecord struct {
	Slot    int
	Seed    string
	Level   int
	Payload []byte
	SavedAt time.Time
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_saves (
		slot INTEGER PRIMARY KEY,
		seed TEXT NOT NULL,
		level INTEGER NOT NULL,
		payload BLOB NOT NULL,
		saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Open открывает (и при необходимости создает) базу сохранений.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for i, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", i+1, err)
		}
		if i > 0 {
			if _, err := s.db.Exec(
				`INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)`, i,
			); err != nil {
				return fmt.Errorf("recording migration %d: %w", i, err)
			}
		}
	}
	return nil
}

// SaveSlot пишет сохранение в слот, затирая прежнее.
func (s *Store) SaveSlot(rec SlotRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO campaign_saves (slot, seed, level, payload, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   seed = excluded.seed,
		   level = excluded.level,
		   payload = excluded.payload,
		   saved_at = excluded.saved_at`,
		rec.Slot, rec.Seed, rec.Level, rec.Payload, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("writing save slot %d: %w", rec.Slot, err)
	}
	logger.Log.WithField("component", "storage").
		WithField("slot", rec.Slot).
		Info("Campaign saved.")
	return nil
}

// LoadSlot читает сохранение из слота.
func (s *Store) LoadSlot(slot int) (SlotRecord, error) {
	rec := SlotRecord{Slot: slot}
	err := s.db.QueryRow(
		`SELECT seed, level, payload, saved_at FROM campaign_saves WHERE slot = ?`, slot,
	).Scan(&rec.Seed, &rec.Level, &rec.Payload, &rec.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrSlotEmpty
	}
	if err != nil {
		return rec, fmt.Errorf("reading save slot %d: %w", slot, err)
	}
	return rec, nil
}

// ListSlots возвращает занятые слоты по возрастанию.
func (s *Store) ListSlots() ([]SlotRecord, error) {
	rows, err := s.db.Query(
		`SELECT slot, seed, level, saved_at FROM campaign_saves ORDER BY slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing save slots: %w", err)
	}
	defer rows.Close()

	var out []SlotRecord
	for rows.Next() {
		var rec SlotRecord
		if err := rows.Scan(&rec.Slot, &rec.Seed, &rec.Level, &rec.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close закрывает базу.
func (s *Store) Close() error {
	return s.db.Close()
}
