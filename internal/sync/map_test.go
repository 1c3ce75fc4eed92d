package sync

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_StoreAndLoad(t *testing.T) {
	m := NewMap[string, string]()

	m.Store("minBitrate", "100")

	value, ok := m.Load("minBitrate")
	assert.True(t, ok)
	assert.Equal(t, "100", value)

	_, ok = m.Load("maxBitrate")
	assert.False(t, ok)
}

func TestMap_DeleteAndLoadAndDelete(t *testing.T) {
	m := NewMap[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)

	m.Delete("a")
	_, ok := m.Load("a")
	assert.False(t, ok)

	v, loaded := m.LoadAndDelete("b")
	assert.True(t, loaded)
	assert.Equal(t, 2, v)

	_, loaded = m.LoadAndDelete("b")
	assert.False(t, loaded)
	assert.Equal(t, 0, m.Len())
}

func TestMap_RangeStops(t *testing.T) {
	m := NewMap[string, int]()
	for i := 0; i < 5; i++ {
		m.Store(strconv.Itoa(i), i)
	}

	visited := 0
	m.Range(func(_ string, _ int) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestMap_SnapshotIsCopy(t *testing.T) {
	m := NewMap[string, int]()
	m.Store("a", 1)

	snap := m.Snapshot()
	snap["b"] = 2

	assert.Equal(t, 1, m.Len())
	assert.Len(t, snap, 2)
}

func TestMap_Concurrent(t *testing.T) {
	m := NewMap[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Store(n, n*n)
			m.Load(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, m.Len())
}
