package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estatequery/server/internal/models"
)

type Database struct {
	db   *sql.DB
	gorm *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	return &Database{db: db, gorm: gormDB}, nil
}

func (d *Database) RunMigrations() error {
	if err := d.gorm.AutoMigrate(&models.Property{}, &models.QueryLog{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// FilterProperties returns the records matching every supplied
// constraint. An empty filter returns the whole collection. An empty
// result is valid; callers decide whether that is a not-found
// condition.
func (d *Database) FilterProperties(f models.Filter) ([]models.Property, error) {
	query := `
        SELECT id, location, property_type, price, price_per_sqft, area_sqft,
               year, demand, demand_score,
               COALESCE(created_at, CURRENT_TIMESTAMP) as created_at,
               COALESCE(updated_at, CURRENT_TIMESTAMP) as updated_at
        FROM properties
        WHERE 1=1
    `
	var args []interface{}

	if f.Location != "" {
		query += " AND LOWER(location) LIKE '%' || LOWER(?) || '%'"
		args = append(args, f.Location)
	}
	if f.PropertyType != "" {
		query += " AND property_type = ?"
		args = append(args, f.PropertyType)
	}
	if f.Years != nil {
		query += " AND year BETWEEN ? AND ?"
		args = append(args, f.Years.Start, f.Years.End)
	}

	query += " ORDER BY year DESC, location ASC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		var location, propertyType sql.NullString
		var price, demandScore sql.NullFloat64
		var pricePerSqft, areaSqft sql.NullFloat64
		var demand sql.NullInt64
		var createdAt, updatedAt sql.NullString

		err := rows.Scan(
			&p.ID,
			&location,
			&propertyType,
			&price,
			&pricePerSqft,
			&areaSqft,
			&p.Year,
			&demand,
			&demandScore,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		if location.Valid {
			p.Location = location.String
		}
		if propertyType.Valid {
			p.PropertyType = propertyType.String
		}

		// Absent numeric fields normalize to 0 rather than failing
		if price.Valid {
			p.Price = price.Float64
		}
		if demand.Valid {
			p.Demand = int(demand.Int64)
		}
		if demandScore.Valid {
			p.DemandScore = demandScore.Float64
		}
		if pricePerSqft.Valid {
			v := pricePerSqft.Float64
			p.PricePerSqft = &v
		}
		if areaSqft.Valid {
			v := areaSqft.Float64
			p.AreaSqft = &v
		}

		if createdAt.Valid {
			if t, ok := parseSQLiteTime(createdAt.String); ok {
				p.CreatedAt = t
			}
		}
		if updatedAt.Valid {
			if t, ok := parseSQLiteTime(updatedAt.String); ok {
				p.UpdatedAt = t
			}
		}

		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return properties, nil
}

// sqliteTimeLayouts are the datetime encodings found in sqlite text
// columns: the driver's bind format, ISO-8601 variants, and the bare
// CURRENT_TIMESTAMP form.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseSQLiteTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// GetAllProperties returns every record, newest year first.
func (d *Database) GetAllProperties() ([]models.Property, error) {
	return d.FilterProperties(models.Filter{})
}

// GetDistinctLocations returns the locations present in the dataset.
func (d *Database) GetDistinctLocations() ([]string, error) {
	rows, err := d.db.Query(`
		SELECT DISTINCT location FROM properties
		WHERE location IS NOT NULL AND location != ''
		ORDER BY location
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %v", err)
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("failed to scan location: %v", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// InsertQueryLog appends one completed analysis to the query log.
func (d *Database) InsertQueryLog(entry *models.QueryLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := d.gorm.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to insert query log: %w", err)
	}
	return nil
}

// GetRecentQueries returns the most recent query-log entries.
func (d *Database) GetRecentQueries(limit int) ([]models.QueryLog, error) {
	var entries []models.QueryLog
	err := d.gorm.
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return entries, nil
}

func (d *Database) PropertyExists(location string) (bool, error) {
	var exists bool
	err := d.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM properties WHERE LOWER(location) LIKE '%' || LOWER(?) || '%' LIMIT 1)",
		location,
	).Scan(&exists)
	return exists, err
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) GetGormDB() *gorm.DB {
	return d.gorm
}

func (d *Database) Close() error {
	return d.db.Close()
}

// normalizeType maps free-form type labels from ingested datasets to
// the canonical enum values.
func NormalizeType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.TypeCommercial:
		return models.TypeCommercial
	case models.TypeIndustrial:
		return models.TypeIndustrial
	default:
		return models.TypeResidential
	}
}
