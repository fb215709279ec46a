package canvas

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdleRoom() *Room {
	return NewRoom("atelier", NewRoomLog(&seqIdGen{}, 0), NewRegistry(), &stubNotifier{})
}

func TestClientReadPump(t *testing.T) {
	t.Parallel()

	t.Run("read error requests removal", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		mockSocket.On("Read").Return([]byte{}, assert.AnError)

		client := NewClient("frida-id", "frida", mockSocket)
		room := newIdleRoom()
		client.SetRoom(room)

		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.ReadPump()
		}()
		// on read error, the goroutine must release
		wg.Wait()

		assert.Equal(t, Member(client), <-room.removalRequests)
		mockSocket.AssertExpectations(t)
	})

	t.Run("good frame reaches the room", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		mockSocket.On("Read").Return([]byte(`{"type":"undo"}`), nil).Once()
		mockSocket.On("Read").Return([]byte{}, assert.AnError).Once()

		client := NewClient("frida-id", "frida", mockSocket)
		room := newIdleRoom()
		client.SetRoom(room)

		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.ReadPump()
		}()
		wg.Wait()

		require.Len(t, room.inbox, 1)
		env := <-room.inbox
		assert.Equal(t, Member(client), env.from)
		assert.Equal(t, UndoEvent{Type: EventUndo}, env.event)
		mockSocket.AssertExpectations(t)
	})

	t.Run("unknown event type drops the connection", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		mockSocket.On("Read").Return([]byte(`{"type":"teleport"}`), nil).Once()

		client := NewClient("frida-id", "frida", mockSocket)
		room := newIdleRoom()
		client.SetRoom(room)

		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.ReadPump()
		}()
		wg.Wait()

		assert.Empty(t, room.inbox, "a rejected frame must not reach the room")
		assert.Equal(t, Member(client), <-room.removalRequests)
		mockSocket.AssertExpectations(t)
	})

	t.Run("garbage bytes drop the connection", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		mockSocket.On("Read").Return([]byte{1, 5}, nil).Once()

		client := NewClient("frida-id", "frida", mockSocket)
		room := newIdleRoom()
		client.SetRoom(room)

		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.ReadPump()
		}()
		wg.Wait()

		assert.Empty(t, room.inbox)
		assert.Equal(t, Member(client), <-room.removalRequests)
		mockSocket.AssertExpectations(t)
	})
}

func TestClientWritePump(t *testing.T) {
	t.Parallel()

	t.Run("release must close the socket", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		mockSocket.On("Close", "").Return().Once()

		client := NewClient("frida-id", "frida", mockSocket)
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.WritePump()
		}()
		client.CancelAndRelease()
		client.CancelAndRelease() // idempotent
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})

	t.Run("write error releases the goroutine", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		data := []byte{1, 2, 3}
		mockSocket.On("Write", data).Return(assert.AnError).Once()
		mockSocket.On("Close", "").Return().Once()

		client := NewClient("frida-id", "frida", mockSocket)
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.WritePump()
		}()
		require.NoError(t, client.Send(data))
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})

	t.Run("correct data writing", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		data := []byte{1, 2, 3}
		mockSocket.On("Write", data).Return(nil).Once()
		mockSocket.On("Write", data).Return(assert.AnError).Once()
		mockSocket.On("Close", "").Return().Once()

		client := NewClient("frida-id", "frida", mockSocket)
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.WritePump()
		}()
		require.NoError(t, client.Send(data))
		require.NoError(t, client.Send(data))
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})

	t.Run("correct ping handling", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockNetworkSession{}
		mockSocket.On("Ping").Return(nil).Once()
		mockSocket.On("Ping").Return(assert.AnError).Once()
		mockSocket.On("Close", "").Return().Once()

		client := NewClient("frida-id", "frida", mockSocket)
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.WritePump()
		}()
		client.pingChan <- struct{}{}
		client.pingChan <- struct{}{}
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})
}

func TestClientSendBackpressure(t *testing.T) {
	t.Parallel()

	// No write pump draining, so the queue eventually refuses.
	client := NewClient("frida-id", "frida", &MockNetworkSession{})
	for i := 0; i < cap(client.inbox); i++ {
		require.NoError(t, client.Send([]byte("x")))
	}
	assert.ErrorIs(t, client.Send([]byte("x")), ErrSendQueueFull)
}
