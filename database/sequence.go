package database

import (
	"errors"
	"fmt"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ScopeInvoice = "RE"
	ScopeReport  = "BR"
)

// FormatNumber renders a sequence value as the human-readable document
// number, e.g. RE-2026-00042.
func FormatNumber(scope string, year, value int) string {
	return fmt.Sprintf("%s-%d-%05d", scope, year, value)
}

// NextNumber assigns the next sequential document number for (scope, year).
// The sequence row is locked for the duration of the transaction so numbers
// are unique and monotonic even under concurrent inserts.
func NextNumber(db *gorm.DB, scope string, year int) (string, error) {
	var number string
	err := db.Transaction(func(tx *gorm.DB) error {
		var seq models.NumberSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("scope = ? AND year = ?", scope, year).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = models.NumberSequence{Scope: scope, Year: year}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastValue++
		if err := tx.Save(&seq).Error; err != nil {
			return err
		}
		number = FormatNumber(scope, year, seq.LastValue)
		return nil
	})
	return number, err
}
