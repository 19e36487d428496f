package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estatequery/server/internal/models"
)

// UpsertProperties writes a batch of records inside the given
// transaction, replacing rows that collide on the record identity
// (location, property_type, year). Ingested records carry no ID, so
// the conflict target must be the identity columns, never the
// autoincrement key.
func UpsertProperties(tx *gorm.DB, batch []*models.Property) error {
	if len(batch) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, p := range batch {
		p.PropertyType = NormalizeType(p.PropertyType)
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "location"}, {Name: "property_type"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "price_per_sqft", "area_sqft",
			"demand", "demand_score", "updated_at",
		}),
	}).Create(batch).Error
	if err != nil {
		return fmt.Errorf("failed to upsert properties: %w", err)
	}
	return nil
}
