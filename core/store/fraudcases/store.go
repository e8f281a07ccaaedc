// Package fraudcases stores fraud cases in a relational database through
// gorm. Cases are looked up by customer name and updated in place.
package fraudcases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/koscakluka/ema-assist/core/records"
	dbpkg "github.com/koscakluka/ema-assist/internal/db"
)

var ErrNotFound = errors.New("fraud case not found")

// Repository is what the fraud assistant needs from case storage.
type Repository interface {
	FindByName(ctx context.Context, name string) ([]records.FraudCase, error)
	Get(ctx context.Context, id uint) (records.FraudCase, error)
	UpdateStatus(ctx context.Context, id uint, status records.CaseStatus, notes string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(driver, dsn string) (*GormStore, error) {
	gormDB, err := dbpkg.OpenGorm(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open fraud case store: %w", err)
	}
	return NewGormStoreFromDB(gormDB)
}

func NewGormStoreFromDB(gormDB *gorm.DB) (*GormStore, error) {
	store := &GormStore{db: gormDB}
	if err := store.db.AutoMigrate(&caseRow{}); err != nil {
		return nil, fmt.Errorf("migrate fraud cases: %w", err)
	}
	return store, nil
}

func (s *GormStore) Close() error {
	if s == nil {
		return nil
	}
	return dbpkg.Close(s.db)
}

// FindByName returns cases whose customer name contains name, ignoring case,
// lowest id first.
func (s *GormStore) FindByName(ctx context.Context, name string) ([]records.FraudCase, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}

	var rows []caseRow
	err := s.db.WithContext(ctx).
		Where("LOWER(user_name) LIKE ? ESCAPE '\\'", "%"+escapeLike(name)+"%").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find cases by name: %w", err)
	}

	cases := make([]records.FraudCase, 0, len(rows))
	for _, row := range rows {
		cases = append(cases, row.toRecord())
	}
	return cases, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (records.FraudCase, error) {
	var row caseRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return records.FraudCase{}, ErrNotFound
		}
		return records.FraudCase{}, fmt.Errorf("get case: %w", err)
	}
	return row.toRecord(), nil
}

// UpdateStatus sets the status and notes of the case with the given id.
func (s *GormStore) UpdateStatus(ctx context.Context, id uint, status records.CaseStatus, notes string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid case status %q", status)
	}

	result := s.db.WithContext(ctx).
		Model(&caseRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": string(status),
			"notes":  notes,
		})
	if result.Error != nil {
		return fmt.Errorf("update case status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) List(ctx context.Context) ([]records.FraudCase, error) {
	var rows []caseRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	cases := make([]records.FraudCase, 0, len(rows))
	for _, row := range rows {
		cases = append(cases, row.toRecord())
	}
	return cases, nil
}

// Seed inserts cases when the table is empty and reports how many were
// inserted.
func (s *GormStore) Seed(ctx context.Context, cases []records.FraudCase) (int, error) {
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&caseRow{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count cases: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, c := range cases {
			row := caseRowFromRecord(c)
			row.ID = 0
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert case for %s: %w", c.UserName, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func escapeLike(v string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
}
