package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	c := WithValue(bg, "foo", "bar")
	ts.Equal("bar", c.Get("foo"))
	ts.Nil(bg.Get("foo"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	c := WithValues(bg, map[string]interface{}{
		"a": "b",
		"c": "d",
	})
	ts.Equal("b", c.Get("a"))
	ts.Equal("d", c.Get("c"))
}

func (ts *testsuite) TestFromKeepsCancellation() {
	parent, cancel := context.WithCancel(context.Background())
	c := From(parent)
	cancel()
	<-c.Done()
	ts.Equal(context.Canceled, c.Err())
}

func (ts *testsuite) TestWithCancel() {
	c, cancel := WithCancel(Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		ts.Fail("context was not canceled")
	}
}

func (ts *testsuite) TestTimeout() {
	c, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		ts.Fail("context did not time out")
	}
	ts.Equal("context deadline exceeded", c.Err().Error())
}
