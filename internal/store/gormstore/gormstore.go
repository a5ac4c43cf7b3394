package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/drayac/Martin/internal/account"
)

type accountRow struct {
	ID             string `gorm:"primaryKey;size:255"`
	PasswordHash   string `gorm:"type:varchar(64);not null"`
	CreatedAt      time.Time
	ChatHistory    string `gorm:"type:text;not null"`
	IsGuest        bool   `gorm:"index;not null"`
	GuestSessionID string `gorm:"type:varchar(32);index"`
}

func (accountRow) TableName() string { return "accounts" }

// Store is the database-backed account table. Save keeps the same
// whole-document semantics as the file store: it replaces every row, so
// concurrent savers remain last writer wins.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects with the configured driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite":
		return gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", driver)
	}
}

func New(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&accountRow{}); err != nil {
		return nil, fmt.Errorf("migrate accounts: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Load(ctx context.Context) (account.Accounts, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	accounts := make(account.Accounts, len(rows))
	for _, row := range rows {
		var history []account.HistoryEntry
		if row.ChatHistory != "" {
			if err := json.Unmarshal([]byte(row.ChatHistory), &history); err != nil {
				s.log.Warn("skipping account with malformed history",
					zap.String("id", row.ID), zap.Error(err))
				continue
			}
		}
		if history == nil {
			history = []account.HistoryEntry{}
		}
		accounts[row.ID] = account.Account{
			PasswordHash:   row.PasswordHash,
			CreatedAt:      row.CreatedAt,
			ChatHistory:    history,
			IsGuest:        row.IsGuest,
			GuestSessionID: row.GuestSessionID,
		}
	}
	return accounts, nil
}

func (s *Store) Save(ctx context.Context, accounts account.Accounts) error {
	rows := make([]accountRow, 0, len(accounts))
	for id, acc := range accounts {
		history := acc.ChatHistory
		if history == nil {
			history = []account.HistoryEntry{}
		}
		b, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("marshal history for %s: %w", id, err)
		}
		rows = append(rows, accountRow{
			ID:             id,
			PasswordHash:   acc.PasswordHash,
			CreatedAt:      acc.CreatedAt,
			ChatHistory:    string(b),
			IsGuest:        acc.IsGuest,
			GuestSessionID: acc.GuestSessionID,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&accountRow{}).Error; err != nil {
			return fmt.Errorf("clear accounts: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert accounts: %w", err)
		}
		return nil
	})
}
