package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"estatequery/server/internal/models"
	"estatequery/server/internal/queue"
)

// Loader reads a property dataset CSV and feeds record batches to the
// ingest queue. Header names are matched case-insensitively; rows
// that cannot be parsed are skipped with a warning, not fatal.
type Loader struct {
	logger    *logrus.Logger
	queue     *queue.RecordQueue
	batchSize int
}

func NewLoader(logger *logrus.Logger, q *queue.RecordQueue, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Loader{logger: logger, queue: q, batchSize: batchSize}
}

// LoadFile reads the CSV at path and enqueues its records. Returns
// the number of records enqueued.
func (l *Loader) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return l.Load(f)
}

func (l *Loader) Load(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read dataset header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["location"]; !ok {
		return 0, fmt.Errorf("dataset has no location column")
	}

	var batch []*models.Property
	total := 0
	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.WithError(err).Warnf("Skipping malformed row %d", line)
			continue
		}

		record, err := parseRow(row, cols)
		if err != nil {
			l.logger.WithError(err).Warnf("Skipping row %d", line)
			continue
		}

		batch = append(batch, record)
		total++

		if len(batch) >= l.batchSize {
			if err := l.queue.Push(batch); err != nil {
				return total, fmt.Errorf("failed to enqueue batch: %w", err)
			}
			batch = nil
		}
	}

	if len(batch) > 0 {
		if err := l.queue.Push(batch); err != nil {
			return total, fmt.Errorf("failed to enqueue batch: %w", err)
		}
	}

	l.logger.Infof("Enqueued %d records from dataset", total)
	return total, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func parseRow(row []string, cols map[string]int) (*models.Property, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	location := get("location")
	if location == "" {
		return nil, fmt.Errorf("row has no location")
	}

	price, err := strconv.ParseFloat(get("price"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", get("price"))
	}

	year := 2024
	if v := get("year"); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", v)
		}
	}

	record := &models.Property{
		Location:     location,
		PropertyType: get("property_type"),
		Price:        price,
		Year:         year,
	}

	// Absent numeric fields normalize to 0 or stay unset
	if v := get("demand"); v != "" {
		if demand, err := strconv.Atoi(v); err == nil {
			record.Demand = demand
		}
	}
	if v := get("demand_score"); v != "" {
		if score, err := strconv.ParseFloat(v, 64); err == nil {
			record.DemandScore = score
		}
	}
	if v := get("price_per_sqft"); v != "" {
		if pps, err := strconv.ParseFloat(v, 64); err == nil {
			record.PricePerSqft = &pps
		}
	}
	if v := get("area_sqft"); v != "" {
		if area, err := strconv.ParseFloat(v, 64); err == nil {
			record.AreaSqft = &area

			// Derive price per sqft when the dataset omits it
			if record.PricePerSqft == nil && area > 0 && price > 0 {
				pps := price / area
				record.PricePerSqft = &pps
			}
		}
	}

	return record, nil
}
