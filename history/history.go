// Package history stores finished battles in a sqlite database
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("battle record not found")

const (
	RESULT_DRAW       = "draw"
	RESULT_UNFINISHED = "unfinished"
)

// Record is one battle. Winner is "player", "opponent", "draw" or "unfinished".
type Record struct {
	ID           uuid.UUID                   `gorm:"type:text;primaryKey"`
	PlayerName   string                      `gorm:"size:64;not null"`
	OpponentName string                      `gorm:"size:64;not null"`
	Winner       string                      `gorm:"size:16;index:idx_record_winner;not null"`
	Turns        int                         `gorm:"not null"`
	PlayerTeam   datatypes.JSONSlice[string] `gorm:"type:text"`
	OpponentTeam datatypes.JSONSlice[string] `gorm:"type:text"`
	Log          datatypes.JSONSlice[string] `gorm:"type:text"`
	StartedAt    time.Time                   `gorm:"index:idx_record_started"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
}

// RecordFromBattle summarizes the battle as it is right now
func RecordFromBattle(m *golurk.BattleManager) Record {
	winner := RESULT_UNFINISHED
	if m.IsBattleOver() {
		winner = RESULT_DRAW
		if m.Winner() != 0 {
			winner = m.Winner().String()
		}
	}

	teamNames := func(p *golurk.Player) []string {
		return lo.Map(p.Team, func(pokemon golurk.Pokemon, _ int) string { return pokemon.Name })
	}

	return Record{
		ID:           m.ID,
		PlayerName:   m.Player.Name,
		OpponentName: m.Opponent.Name,
		Winner:       winner,
		Turns:        m.Turn,
		PlayerTeam:   teamNames(&m.Player),
		OpponentTeam: teamNames(&m.Opponent),
		Log:          m.Log(),
		StartedAt:    m.StartedAt,
	}
}

type Stats struct {
	Battles int64
	Wins    int64
	Losses  int64
	Draws   int64
}

type Store struct {
	db     *gorm.DB
	logger logr.Logger
}

type options struct {
	logger logr.Logger
}

type Option func(*options)

func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open opens or creates the database at path and migrates it. ":memory:" gives a throwaway store.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{logger: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite only allows one writer, and every connection to :memory: is a different database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &Store{db: db, logger: o.logger.WithName("history")}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *Store) Save(ctx context.Context, record Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.logger.Error(err, "couldn't save battle", "battle_id", record.ID.String())
		return err
	}

	s.logger.Info("saved battle", "battle_id", record.ID.String(), "winner", record.Winner, "turns", record.Turns)
	return nil
}

// Recent returns the n latest battles, newest first
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	records := make([]Record, 0, n)
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(n).
		Find(&records).Error

	return records, err
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	record := Record{}
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return record, err
}

// Stats counts results from the player's side
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	type row struct {
		Winner string
		Count  int64
	}

	rows := make([]row, 0)
	err := s.db.WithContext(ctx).
		Model(&Record{}).
		Select("winner, count(*) as count").
		Group("winner").
		Scan(&rows).Error
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	for _, r := range rows {
		stats.Battles += r.Count

		switch r.Winner {
		case golurk.PLAYER.String():
			stats.Wins += r.Count
		case golurk.OPPONENT.String():
			stats.Losses += r.Count
		case RESULT_DRAW:
			stats.Draws += r.Count
		}
	}

	return stats, nil
}
