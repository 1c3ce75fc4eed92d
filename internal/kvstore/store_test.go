package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/imtaco/meet-embed/internal/log"
)

// StoreTestSuite runs the same behavior checks against every real backend.
type StoreTestSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
	ctx      context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.store = s.newStore()
	s.ctx = context.Background()
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{newStore: NewMemory})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &StoreTestSuite{newStore: func() Store {
		mr.FlushAll()
		return NewRedis(client, "test", log.NewTest(t))
	}})
}

func TestCachedMemoryStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{newStore: func() Store {
		st, err := NewCached(NewMemory(), 4, time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		return st
	}})
}

func (s *StoreTestSuite) TestGetMissing() {
	_, err := s.store.GetItem(s.ctx, "minBitrate")
	s.ErrorIs(err, ErrKeyNotFound)
}

func (s *StoreTestSuite) TestBitrateRoundTrip() {
	s.Require().NoError(s.store.SetItem(s.ctx, "minBitrate", "100"))
	s.Require().NoError(s.store.SetItem(s.ctx, "stdBitrate", "500"))
	s.Require().NoError(s.store.SetItem(s.ctx, "maxBitrate", "2000"))

	v, err := s.store.GetItem(s.ctx, "minBitrate")
	s.Require().NoError(err)
	s.Equal("100", v)

	v, err = s.store.GetItem(s.ctx, "maxBitrate")
	s.Require().NoError(err)
	s.Equal("2000", v)
}

func (s *StoreTestSuite) TestLastWriterWins() {
	s.Require().NoError(s.store.SetItem(s.ctx, "meetingTitle", "first"))
	s.Require().NoError(s.store.SetItem(s.ctx, "meetingTitle", "second"))

	v, err := s.store.GetItem(s.ctx, "meetingTitle")
	s.Require().NoError(err)
	s.Equal("second", v)
}

func (s *StoreTestSuite) TestRemove() {
	s.Require().NoError(s.store.SetItem(s.ctx, "lobyTitle", "Lobby"))
	s.Require().NoError(s.store.RemoveItem(s.ctx, "lobyTitle"))

	_, err := s.store.GetItem(s.ctx, "lobyTitle")
	s.ErrorIs(err, ErrKeyNotFound)

	// removing an absent key is not an error
	s.NoError(s.store.RemoveItem(s.ctx, "lobyTitle"))
}

func (s *StoreTestSuite) TestMultiGetOmitsMissing() {
	s.Require().NoError(s.store.SetItem(s.ctx, "waitingText", "hold on"))
	s.Require().NoError(s.store.SetItem(s.ctx, "lobyDescription", ""))

	got, err := s.store.MultiGet(s.ctx, "waitingText", "lobyTitle", "lobyDescription")
	s.Require().NoError(err)
	s.Equal(map[string]string{"waitingText": "hold on", "lobyDescription": ""}, got)

	got, err = s.store.MultiGet(s.ctx)
	s.Require().NoError(err)
	s.Empty(got)
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewMemory()
	if err := st.SetItem(ctx, "k", "v"); err == nil {
		t.Fatal("expected canceled context error")
	}
}
