package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taskmesh/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// nextSequence atomically increments the named counter and returns its new
// value. The single-row UPDATE takes the row lock, so concurrent allocations
// serialize on it. A missing counter is seeded via the seed callback; the
// seed must account for every existing row, soft-deleted ones included, so
// that identifiers are never reused.
func nextSequence(tx *gorm.DB, name string, seed func(tx *gorm.DB) (uint64, error)) (uint64, error) {
	res := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", name, res.Error)
	}

	if res.RowsAffected == 0 {
		start, err := seed(tx)
		if err != nil {
			return 0, fmt.Errorf("failed to seed sequence %s: %w", name, err)
		}

		seq := models.Sequence{Name: name, Value: start + 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, fmt.Errorf("failed to create sequence %s: %w", name, err)
		}
		return seq.Value, nil
	}

	var seq models.Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to read sequence %s: %w", name, err)
	}
	return seq.Value, nil
}

// maxNumericSuffix scans a public identifier column across all rows,
// including soft-deleted ones, and returns the largest numeric suffix.
func maxNumericSuffix(tx *gorm.DB, table, column, prefix string) (uint64, error) {
	var ids []string
	if err := tx.Table(table).Pluck(column, &ids).Error; err != nil {
		return 0, err
	}

	var max uint64
	for _, id := range ids {
		n, err := strconv.ParseUint(strings.TrimPrefix(id, prefix), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}
