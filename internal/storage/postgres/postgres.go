// Package postgres provides a gorm-backed implementation of storage.Store
// aimed at PostgreSQL. Standings are aggregated in Go from raw rows rather
// than through a database view.
package postgres

import (
	"context"
	"errors"
	"fmt"

	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/tournament/internal/models"
	"github.com/mmynk/tournament/internal/storage"
	"github.com/mmynk/tournament/internal/swiss"
)

// Ensure GormStore implements the storage interfaces
var (
	_ storage.Store          = (*GormStore)(nil)
	_ storage.OrganizerStore = (*GormStore)(nil)
)

// playerRow maps the players table.
type playerRow struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"not null"`
}

func (playerRow) TableName() string { return "players" }

// matchRow maps the matches table. Both sides cascade with their player.
type matchRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Winner    int64     `gorm:"not null;index;check:chk_matches_distinct,winner <> loser"`
	Loser     int64     `gorm:"not null;index"`
	WinnerRow playerRow `gorm:"foreignKey:Winner;references:ID;constraint:OnDelete:CASCADE"`
	LoserRow  playerRow `gorm:"foreignKey:Loser;references:ID;constraint:OnDelete:CASCADE"`
}

func (matchRow) TableName() string { return "matches" }

type organizerRow struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	DisplayName  string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    int64  `gorm:"autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"autoUpdateTime:false"`
}

func (organizerRow) TableName() string { return "organizers" }

// GormStore implements storage.Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// New connects to PostgreSQL with the given DSN (for example
// "dbname=tournament") and migrates the schema.
func New(dsn string) (*GormStore, error) {
	return Open(gormpg.Open(dsn))
}

// Open builds a store from any gorm dialector. Errors are translated so
// constraint failures can be classified.
func Open(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w: %v", storage.ErrUnavailable, err)
	}

	if err := db.AutoMigrate(&playerRow{}, &matchRow{}, &organizerRow{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &GormStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// codedError matches SQLite driver errors, which the SQLite dialector
// leaves untranslated for CHECK failures.
type codedError interface {
	error
	Code() int
}

// classify maps translated gorm errors onto the storage sentinels.
func classify(err error) error {
	var coded codedError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %v", storage.ErrConstraint, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", storage.ErrNotFound, err)
	case errors.As(err, &coded) && coded.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %v", storage.ErrConstraint, err)
	}
	return err
}

// DeleteMatches removes every match record.
func (s *GormStore) DeleteMatches(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&matchRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", classify(err))
	}
	return nil
}

// DeletePlayers removes every player along with their matches.
func (s *GormStore) DeletePlayers(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&playerRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete players: %w", classify(err))
	}
	return nil
}

// CountPlayers returns the number of registered players.
func (s *GormStore) CountPlayers(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&playerRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count players: %w", classify(err))
	}
	return int(count), nil
}

// RegisterPlayer inserts a player and fills in the assigned id.
func (s *GormStore) RegisterPlayer(ctx context.Context, player *models.Player) error {
	row := playerRow{Name: player.Name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert player: %w", classify(err))
	}
	player.ID = row.ID
	return nil
}

// ReportMatch records a single result.
func (s *GormStore) ReportMatch(ctx context.Context, match models.Match) error {
	row := matchRow{Winner: match.Winner, Loser: match.Loser}
	err := s.db.WithContext(ctx).Omit("WinnerRow", "LoserRow").Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", classify(err))
	}
	return nil
}

// ListPlayers returns every player ordered by id.
func (s *GormStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var rows []playerRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list players: %w", classify(err))
	}

	players := make([]models.Player, len(rows))
	for i, r := range rows {
		players[i] = models.Player{ID: r.ID, Name: r.Name}
	}
	return players, nil
}

// ListMatches returns every match in the order it was reported.
func (s *GormStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	var rows []matchRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", classify(err))
	}

	matches := make([]models.Match, len(rows))
	for i, r := range rows {
		matches[i] = models.Match{Winner: r.Winner, Loser: r.Loser}
	}
	return matches, nil
}

// PlayerStandings reads players and matches in one transaction
// and aggregates them in memory.
func (s *GormStore) PlayerStandings(ctx context.Context) ([]models.Standing, error) {
	var players []models.Player
	var matches []models.Match

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &GormStore{db: tx}
		var err error
		if players, err = scoped.ListPlayers(ctx); err != nil {
			return err
		}
		matches, err = scoped.ListMatches(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	return swiss.BuildStandings(players, matches), nil
}

// CreateOrganizer inserts a new organizer.
func (s *GormStore) CreateOrganizer(ctx context.Context, organizer *models.Organizer) error {
	row := organizerRow{
		ID:           organizer.ID,
		Email:        organizer.Email,
		DisplayName:  organizer.DisplayName,
		PasswordHash: organizer.PasswordHash,
		CreatedAt:    organizer.CreatedAt,
		UpdatedAt:    organizer.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create organizer: %w", classify(err))
	}
	return nil
}

// GetOrganizerByEmail retrieves an organizer by email address.
func (s *GormStore) GetOrganizerByEmail(ctx context.Context, email string) (*models.Organizer, error) {
	return s.getOrganizer(ctx, "email = ?", email)
}

// GetOrganizerByID retrieves an organizer by id.
func (s *GormStore) GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error) {
	return s.getOrganizer(ctx, "id = ?", id)
}

func (s *GormStore) getOrganizer(ctx context.Context, cond, value string) (*models.Organizer, error) {
	var row organizerRow
	if err := s.db.WithContext(ctx).Where(cond, value).First(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to get organizer %s: %w", value, classify(err))
	}
	return &models.Organizer{
		ID:           row.ID,
		Email:        row.Email,
		DisplayName:  row.DisplayName,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
