package ingest

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatequery/server/internal/models"
	"estatequery/server/internal/queue"
)

func collectBatches(t *testing.T, q *queue.RecordQueue) (*sync.Mutex, *[][]*models.Property) {
	t.Helper()
	var mu sync.Mutex
	var batches [][]*models.Property
	q.Subscribe(func(batch []*models.Property) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, batch)
		return nil
	})
	q.Start()
	return &mu, &batches
}

func TestLoader_Load(t *testing.T) {
	csvData := `location,property_type,price,price_per_sqft,area_sqft,year,demand,demand_score
Pune,residential,500000,450.5,1110,2023,12,2500
Wakad,commercial,900000,,,2024,8,1800
`

	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()
	mu, batches := collectBatches(t, q)

	loader := NewLoader(logrus.New(), q, 100)
	count, err := loader.Load(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *batches, 1)
	records := (*batches)[0]
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Pune", first.Location)
	assert.Equal(t, "residential", first.PropertyType)
	assert.Equal(t, 500000.0, first.Price)
	require.NotNil(t, first.PricePerSqft)
	assert.Equal(t, 450.5, *first.PricePerSqft)
	require.NotNil(t, first.AreaSqft)
	assert.Equal(t, 1110.0, *first.AreaSqft)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, 12, first.Demand)
	assert.Equal(t, 2500.0, first.DemandScore)

	second := records[1]
	assert.Equal(t, "Wakad", second.Location)
	assert.Nil(t, second.PricePerSqft)
	assert.Nil(t, second.AreaSqft)
}

func TestLoader_DerivesPricePerSqft(t *testing.T) {
	csvData := `location,price,area_sqft
Pune,100000,1000
`

	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()
	mu, batches := collectBatches(t, q)

	loader := NewLoader(logrus.New(), q, 100)
	count, err := loader.Load(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *batches, 1)
	record := (*batches)[0][0]
	require.NotNil(t, record.PricePerSqft)
	assert.Equal(t, 100.0, *record.PricePerSqft)
}

func TestLoader_DefaultsYear(t *testing.T) {
	csvData := `location,price
Pune,100000
`

	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()
	mu, batches := collectBatches(t, q)

	loader := NewLoader(logrus.New(), q, 100)
	_, err := loader.Load(strings.NewReader(csvData))
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *batches, 1)
	assert.Equal(t, 2024, (*batches)[0][0].Year)
}

func TestLoader_SkipsBadRows(t *testing.T) {
	csvData := `location,price,year
Pune,100000,2023
,200000,2023
Wakad,not-a-price,2023
Mumbai,300000,2024
`

	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()
	mu, batches := collectBatches(t, q)

	loader := NewLoader(logrus.New(), q, 100)
	count, err := loader.Load(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *batches, 1)
	records := (*batches)[0]
	require.Len(t, records, 2)
	assert.Equal(t, "Pune", records[0].Location)
	assert.Equal(t, "Mumbai", records[1].Location)
}

func TestLoader_BatchSplitting(t *testing.T) {
	var b strings.Builder
	b.WriteString("location,price\n")
	for i := 0; i < 5; i++ {
		b.WriteString("Pune,100000\n")
	}

	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()
	mu, batches := collectBatches(t, q)

	loader := NewLoader(logrus.New(), q, 2)
	count, err := loader.Load(strings.NewReader(b.String()))

	require.NoError(t, err)
	assert.Equal(t, 5, count)

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// 2 + 2 + 1
	require.Len(t, *batches, 3)
	assert.Len(t, (*batches)[0], 2)
	assert.Len(t, (*batches)[2], 1)
}

func TestLoader_MissingLocationColumn(t *testing.T) {
	csvData := `price,year
100000,2023
`

	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()

	loader := NewLoader(logrus.New(), q, 100)
	_, err := loader.Load(strings.NewReader(csvData))
	assert.ErrorContains(t, err, "no location column")
}

func TestLoader_MissingFile(t *testing.T) {
	q := queue.NewRecordQueue(10, logrus.New())
	defer q.Close()

	loader := NewLoader(logrus.New(), q, 100)
	_, err := loader.LoadFile("/nonexistent/dataset.csv")
	assert.ErrorContains(t, err, "failed to open dataset")
}
