package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatequery/server/internal/models"
)

func testBatch(locations ...string) []*models.Property {
	batch := make([]*models.Property, len(locations))
	for i, loc := range locations {
		batch[i] = &models.Property{Location: loc, Price: 100000, Year: 2024}
	}
	return batch
}

func TestRecordQueue_PushAndDispatch(t *testing.T) {
	q := NewRecordQueue(10, logrus.New())
	defer q.Close()

	var mu sync.Mutex
	var received [][]*models.Property
	q.Subscribe(func(batch []*models.Property) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, batch)
		return nil
	})
	q.Start()

	require.NoError(t, q.Push(testBatch("Pune", "Wakad")))
	require.NoError(t, q.Push(testBatch("Mumbai")))

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Len(t, received[0], 2)
	assert.Equal(t, "Pune", received[0][0].Location)
	assert.Equal(t, "Mumbai", received[1][0].Location)
}

func TestRecordQueue_PushFull(t *testing.T) {
	q := NewRecordQueue(1, logrus.New())
	defer q.Close()

	// Not started, so the single buffer slot fills immediately
	require.NoError(t, q.Push(testBatch("Pune")))
	err := q.Push(testBatch("Wakad"))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestRecordQueue_PushAfterClose(t *testing.T) {
	q := NewRecordQueue(10, logrus.New())
	require.NoError(t, q.Close())

	err := q.Push(testBatch("Pune"))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestRecordQueue_CloseIdempotent(t *testing.T) {
	q := NewRecordQueue(10, logrus.New())
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.True(t, q.IsClosed())
}

func TestRecordQueue_MultipleHandlers(t *testing.T) {
	q := NewRecordQueue(10, logrus.New())
	defer q.Close()

	var mu sync.Mutex
	counts := make(map[string]int)
	q.Subscribe(func(batch []*models.Property) error {
		mu.Lock()
		defer mu.Unlock()
		counts["first"]++
		return nil
	})
	q.Subscribe(func(batch []*models.Property) error {
		mu.Lock()
		defer mu.Unlock()
		counts["second"]++
		return nil
	})
	q.Start()

	require.NoError(t, q.Push(testBatch("Pune")))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, counts["first"])
	assert.Equal(t, 1, counts["second"])
}

func TestRecordQueue_HandlerErrorDoesNotStopDispatch(t *testing.T) {
	q := NewRecordQueue(10, logrus.New())
	defer q.Close()

	var mu sync.Mutex
	dispatched := 0
	q.Subscribe(func(batch []*models.Property) error {
		return errors.New("handler blew up")
	})
	q.Subscribe(func(batch []*models.Property) error {
		mu.Lock()
		defer mu.Unlock()
		dispatched++
		return nil
	})
	q.Start()

	require.NoError(t, q.Push(testBatch("Pune")))
	require.NoError(t, q.Push(testBatch("Wakad")))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, dispatched)
}
