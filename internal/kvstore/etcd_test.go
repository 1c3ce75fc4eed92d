package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/mock/gomock"

	etcdmocks "github.com/imtaco/meet-embed/internal/etcd/mocks"
	"github.com/imtaco/meet-embed/internal/log"
)

type EtcdStoreTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	mockKV *etcdmocks.MockKV
	store  Store
	ctx    context.Context
}

func TestEtcdStoreSuite(t *testing.T) {
	suite.Run(t, new(EtcdStoreTestSuite))
}

func (s *EtcdStoreTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockKV = etcdmocks.NewMockKV(s.ctrl)
	s.store = NewEtcd(s.mockKV, "/meet/", log.NewTest(s.T()))
	s.ctx = context.Background()
}

func (s *EtcdStoreTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func kvResp(key, value string) *clientv3.GetResponse {
	return &clientv3.GetResponse{Kvs: []*mvccpb.KeyValue{{Key: []byte(key), Value: []byte(value)}}}
}

func (s *EtcdStoreTestSuite) TestSetItem() {
	s.mockKV.EXPECT().
		Put(gomock.Any(), "/meet/kv/minBitrate", "100").
		Return(&clientv3.PutResponse{}, nil)

	s.NoError(s.store.SetItem(s.ctx, "minBitrate", "100"))
}

func (s *EtcdStoreTestSuite) TestSetItem_Error() {
	s.mockKV.EXPECT().
		Put(gomock.Any(), "/meet/kv/minBitrate", "100").
		Return(nil, errors.New("etcd unavailable"))

	err := s.store.SetItem(s.ctx, "minBitrate", "100")
	s.ErrorContains(err, "etcd unavailable")
	s.ErrorContains(err, "minBitrate")
}

func (s *EtcdStoreTestSuite) TestGetItem() {
	s.mockKV.EXPECT().
		Get(gomock.Any(), "/meet/kv/maxBitrate").
		Return(kvResp("/meet/kv/maxBitrate", "2000"), nil)

	v, err := s.store.GetItem(s.ctx, "maxBitrate")
	s.Require().NoError(err)
	s.Equal("2000", v)
}

func (s *EtcdStoreTestSuite) TestGetItem_NotFound() {
	s.mockKV.EXPECT().
		Get(gomock.Any(), "/meet/kv/maxBitrate").
		Return(&clientv3.GetResponse{}, nil)

	_, err := s.store.GetItem(s.ctx, "maxBitrate")
	s.ErrorIs(err, ErrKeyNotFound)
}

func (s *EtcdStoreTestSuite) TestRemoveItem() {
	s.mockKV.EXPECT().
		Delete(gomock.Any(), "/meet/kv/lobyTitle").
		Return(&clientv3.DeleteResponse{}, nil)

	s.NoError(s.store.RemoveItem(s.ctx, "lobyTitle"))
}

func (s *EtcdStoreTestSuite) TestMultiGet() {
	gomock.InOrder(
		s.mockKV.EXPECT().
			Get(gomock.Any(), "/meet/kv/meetingTitle").
			Return(kvResp("/meet/kv/meetingTitle", "Standup"), nil),
		s.mockKV.EXPECT().
			Get(gomock.Any(), "/meet/kv/waitingText").
			Return(&clientv3.GetResponse{}, nil),
	)

	got, err := s.store.MultiGet(s.ctx, "meetingTitle", "waitingText")
	s.Require().NoError(err)
	s.Equal(map[string]string{"meetingTitle": "Standup"}, got)
}

func (s *EtcdStoreTestSuite) TestMultiGet_Error() {
	s.mockKV.EXPECT().
		Get(gomock.Any(), "/meet/kv/meetingTitle").
		Return(nil, errors.New("timeout"))

	_, err := s.store.MultiGet(s.ctx, "meetingTitle", "waitingText")
	s.Error(err)
}
