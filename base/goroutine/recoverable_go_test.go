package goroutine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverableGo(t *testing.T) {
	req := require.New(t)

	done := make(chan struct{})
	ch := RecoverableGo(func() {
		close(done)
	})
	<-done
	ev, ok := <-ch
	req.Nil(ev)
	req.False(ok)
}

func TestRecoverableGoPanic(t *testing.T) {
	req := require.New(t)

	recovered := false
	ch := RecoverableGo(func() {
		panic("boom")
	}, WithAfterRecovered(func(p interface{}, stack []byte) {
		recovered = true
	}))

	ev := <-ch
	req.NotNil(ev)
	req.Equal("boom", ev.Panic)
	req.True(recovered)
}
