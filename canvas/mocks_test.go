package canvas

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- Member ---

type MockMember struct {
	mock.Mock
}

func (m *MockMember) UserID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMember) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMember) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockMember) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMember) SetRoom(r *Room) {
	m.Called(r)
}

func (m *MockMember) CancelAndRelease() {
	m.Called()
}

// --- Hand-rolled test doubles ---

// seqIdGen hands out op-1, op-2, ... so scenarios can assert on ids.
type seqIdGen struct {
	locker sync.Mutex
	n      int
}

func (g *seqIdGen) Generate() string {
	g.locker.Lock()
	defer g.locker.Unlock()
	g.n++
	return fmt.Sprintf("op-%d", g.n)
}

// recordingMember captures everything the room sends it. Safe to inspect
// from the test goroutine while a room actor is running.
type recordingMember struct {
	id   string
	name string

	locker   sync.Mutex
	frames   [][]byte
	pings    int
	released bool
	failSend bool
	room     *Room
}

func newRecordingMember(id, name string) *recordingMember {
	return &recordingMember{id: id, name: name}
}

func (m *recordingMember) UserID() string   { return m.id }
func (m *recordingMember) Username() string { return m.name }

func (m *recordingMember) Send(data []byte) error {
	m.locker.Lock()
	defer m.locker.Unlock()
	if m.failSend {
		return ErrSendQueueFull
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.frames = append(m.frames, cp)
	return nil
}

func (m *recordingMember) Ping() error {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.pings++
	return nil
}

func (m *recordingMember) SetRoom(r *Room) {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.room = r
}

func (m *recordingMember) CancelAndRelease() {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.released = true
}

func (m *recordingMember) events(t *testing.T) []any {
	t.Helper()
	m.locker.Lock()
	defer m.locker.Unlock()
	out := make([]any, 0, len(m.frames))
	for _, frame := range m.frames {
		ev, err := DecodeServerEvent(frame)
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func (m *recordingMember) eventTypes(t *testing.T) []string {
	t.Helper()
	m.locker.Lock()
	defer m.locker.Unlock()
	types := make([]string, 0, len(m.frames))
	for _, frame := range m.frames {
		var head struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(frame, &head))
		types = append(types, head.Type)
	}
	return types
}

func (m *recordingMember) clearFrames() {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.frames = nil
}

func (m *recordingMember) pingCount() int {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.pings
}

func (m *recordingMember) wasReleased() bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.released
}

func (m *recordingMember) currentRoom() *Room {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.room
}

// stubNotifier records departures reported to the hub.
type stubNotifier struct {
	locker sync.Mutex
	gone   []string
}

func (n *stubNotifier) ClientGone(roomID string) {
	n.locker.Lock()
	defer n.locker.Unlock()
	n.gone = append(n.gone, roomID)
}

func (n *stubNotifier) goneCount() int {
	n.locker.Lock()
	defer n.locker.Unlock()
	return len(n.gone)
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
