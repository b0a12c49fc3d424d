package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain/keys"
	"github.com/x-xyz/editionmarket/service/cache/provider"
	"github.com/x-xyz/editionmarket/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type value struct {
	Value string `json:"value"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 1)
	ts.im = New(ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   "testing",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	c := &value{}
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))

	sv, err := json.Marshal(value{"v"})
	ts.NoError(err)
	ts.NoError(ts.cache.Set(mockCtx, keys.RedisKey("testing", "key"), sv, time.Minute))
	ts.NoError(ts.im.Get(mockCtx, "key", c))
	ts.Equal(value{"v"}, *c)
}

func (ts *testsuite) TestSetDel() {
	ts.NoError(ts.im.Set(mockCtx, "key", value{"v"}))

	sv, _, err := ts.cache.Get(mockCtx, "testing:key")
	ts.NoError(err)
	c := &value{}
	ts.NoError(json.Unmarshal(sv, c))
	ts.Equal("v", c.Value)

	ts.NoError(ts.im.Del(mockCtx, "key"))
	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, "key", c))
}

func (ts *testsuite) TestGetByFunc() {
	calls := 0
	getter := func() (interface{}, error) {
		calls++
		return &value{"fresh"}, nil
	}

	c := &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c, getter))
	ts.Equal("fresh", c.Value)

	c = &value{}
	ts.NoError(ts.im.GetByFunc(mockCtx, "key", c, getter))
	ts.Equal("fresh", c.Value)
	ts.Equal(1, calls)
}

func (ts *testsuite) TestGetByFuncErrors() {
	boom := errors.New("boom")
	c := &value{}
	ts.Equal(boom, ts.im.GetByFunc(mockCtx, "a", c, func() (interface{}, error) { return nil, boom }))
	ts.Error(ts.im.GetByFunc(mockCtx, "b", c, func() (interface{}, error) { return value{"not a pointer"}, nil }))
}
