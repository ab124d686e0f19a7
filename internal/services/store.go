package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafirm/website/backend/internal/models"
)

// ErrRecordNotFound is returned when an id does not match any row.
var ErrRecordNotFound = errors.New("record not found")

const defaultQueryTimeout = 5 * time.Second

// store is the persistence gateway shared by the resource services: every
// statement runs on a context bounded by the configured query timeout.
type store struct {
	db      *gorm.DB
	timeout time.Duration
}

func newStore(db *gorm.DB, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return store{db: db, timeout: timeout}
}

func (s store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// listArchivable returns rows newest first, optionally restricted to active ones.
func listArchivable[T models.Archivable](db *gorm.DB, activeOnly bool, order string) ([]T, error) {
	rows := make([]T, 0)
	q := db.Order(order)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// setActive flips is_active on one row of an archivable table. The table must
// come from models.ResourceType, never from request input.
func setActive(db *gorm.DB, rt models.ResourceType, id uint, active bool) error {
	table := rt.Table()
	if table == "" {
		return models.ErrUnknownResourceType
	}
	res := db.Table(table).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update %s visibility: %w", table, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// resyncSequence points the id generator of table at MAX(id)+1 so the next
// insert reuses ids freed by a hard delete. This keeps ids compact; nothing
// relies on it for correctness.
func resyncSequence(tx *gorm.DB, table string) error {
	quoted := tx.Statement.Quote(table)
	switch tx.Dialector.Name() {
	case "postgres":
		return tx.Exec(
			"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM "+quoted+"), 0) + 1, false)",
			table,
		).Error
	case "sqlite":
		var n int64
		if err := tx.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			// without AUTOINCREMENT sqlite already hands out MAX(rowid)+1
			return nil
		}
		return tx.Exec(
			"UPDATE sqlite_sequence SET seq = (SELECT COALESCE(MAX(id), 0) FROM "+quoted+") WHERE name = ?",
			table,
		).Error
	default:
		return nil
	}
}
