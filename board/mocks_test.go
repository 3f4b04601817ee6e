package board

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- Conn ---

type MockConn struct {
	mock.Mock
}

func (m *MockConn) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockConn) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockConn) Read() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockConn) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- Renderer ---

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) StrokeStarted(stroke Stroke) {
	m.Called(stroke)
}

func (m *MockRenderer) PointsAppended(strokeID string, points []Point, tool Tool, color string, width float64) {
	m.Called(strokeID, points, tool, color, width)
}

func (m *MockRenderer) StrokeFinalized(stroke Stroke) {
	m.Called(stroke)
}

// --- roomParent ---

type MockRoomParent struct {
	mock.Mock
}

func (m *MockRoomParent) RequestRemoveRoom(r *Room) {
	m.Called(r)
}

func (m *MockRoomParent) RequestJoinRoom(c *Client, roomID, name, color string) {
	m.Called(c, roomID, name, color)
}

// --- Clock ---

// fakeClock is hand-rolled rather than a testify mock so tests can advance
// it without re-stubbing expectations per call.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
