package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingConn records how many WriteJSON calls overlap, which gorilla
// connections do not tolerate.
type countingConn struct {
	active    int32
	maxActive int32
	writes    int32
}

func (c *countingConn) WriteJSON(v interface{}) error {
	n := atomic.AddInt32(&c.active, 1)
	for {
		m := atomic.LoadInt32(&c.maxActive)
		if n <= m || atomic.CompareAndSwapInt32(&c.maxActive, m, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&c.active, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *countingConn) Close() error { return nil }

func TestFanOutSerializesWritesPerConnection(t *testing.T) {
	conn := &countingConn{}
	RegisterNotifyConn("test-serial", conn)
	defer UnregisterNotifyConn("test-serial")

	const events = 8
	for i := 0; i < events; i++ {
		fanOutPendingEvent(PendingTaskEvent{Type: "pending_task.created", Title: "x"})
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&conn.writes) < events {
		if time.Now().After(deadline) {
			t.Fatalf("only %d of %d writes completed", conn.writes, events)
		}
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&conn.maxActive),
		"writes to one connection must never overlap")
}

func TestUnregisterStopsDelivery(t *testing.T) {
	conn := &countingConn{}
	RegisterNotifyConn("test-unregister", conn)
	UnregisterNotifyConn("test-unregister")

	fanOutPendingEvent(PendingTaskEvent{Title: "x"})

	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&conn.writes))
}
