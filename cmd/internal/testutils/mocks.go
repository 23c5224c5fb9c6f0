package testutils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/sink"
)

var ErrClosed = errors.New("mock subscriber closed")

// MockRand returns queued values first and the fixed Val* afterwards.
// Intn results are clamped to n-1 so a large ValInt means "always the last".
type MockRand struct {
	ValInt   int
	ValFloat float64
	Ints     []int
	Floats   []float64
}

func (m *MockRand) Intn(n int) int {
	v := m.ValInt
	if len(m.Ints) > 0 {
		v, m.Ints = m.Ints[0], m.Ints[1:]
	}
	if v >= n {
		v = n - 1
	}
	return v
}

func (m *MockRand) Float64() float64 {
	if len(m.Floats) > 0 {
		v := m.Floats[0]
		m.Floats = m.Floats[1:]
		return v
	}
	return m.ValFloat
}

type MockClock struct {
	CurrentTime time.Time
	Sleeps      int
}

func (m *MockClock) Now() time.Time { return m.CurrentTime }
func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
	m.Sleeps++
}

// MockSubscriber records every frame it is sent. FailAfter > 0 makes the
// send with that 1-based index (and every later one) fail.
type MockSubscriber struct {
	IDVal     string
	FailAfter int
	Frames    []string
	Closed    bool
	Mu        sync.Mutex
	attempts  int
}

func NewMockSubscriber(id string) *MockSubscriber {
	return &MockSubscriber{IDVal: id}
}

func (m *MockSubscriber) ID() string { return m.IDVal }

func (m *MockSubscriber) Send(msg []byte) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	m.attempts++
	if m.Closed || (m.FailAfter > 0 && m.attempts >= m.FailAfter) {
		return ErrClosed
	}
	m.Frames = append(m.Frames, string(msg))
	return nil
}

func (m *MockSubscriber) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

func (m *MockSubscriber) Received() []string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	out := make([]string, len(m.Frames))
	copy(out, m.Frames)
	return out
}

// Messages decodes every received frame.
func (m *MockSubscriber) Messages(t *testing.T) []protocol.Message {
	t.Helper()
	var out []protocol.Message
	for _, f := range m.Received() {
		msg, _, err := protocol.Decode([]byte(f))
		if err != nil {
			t.Fatalf("Subscriber %s received invalid frame %q: %v", m.IDVal, f, err)
		}
		out = append(out, msg)
	}
	return out
}

func (m *MockSubscriber) IsClosed() bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Closed
}

// MockEventSink records emitted events.
type MockEventSink struct {
	Events []protocol.Event
	Mu     sync.Mutex
}

func (m *MockEventSink) Emit(ev protocol.Event) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Events = append(m.Events, ev)
}

func (m *MockEventSink) Count(t protocol.MessageType) int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	n := 0
	for _, ev := range m.Events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// MockWriter is a sink.Writer that records events.
type MockWriter struct {
	Events     []protocol.Event
	ShouldFail bool
	Closed     bool
	Mu         sync.Mutex
}

func (m *MockWriter) Name() string { return "mock" }

func (m *MockWriter) Write(ctx context.Context, ev protocol.Event) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("write error")
	}
	m.Events = append(m.Events, ev)
	return nil
}

func (m *MockWriter) Close() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockWriter) Len() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return len(m.Events)
}

type MockKafkaWriter struct {
	Messages   []kafka.Message
	Mu         sync.Mutex
	ShouldFail bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error { return nil }

type MockKafkaConn struct {
	CreatedTopics []string
}

func (m *MockKafkaConn) Controller() (kafka.Broker, error) {
	return kafka.Broker{Host: "localhost", Port: 9092}, nil
}
func (m *MockKafkaConn) Close() error { return nil }
func (m *MockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	for _, t := range topics {
		m.CreatedTopics = append(m.CreatedTopics, t.Topic)
	}
	return nil
}
func (m *MockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	// Simulate "Ready" state immediately
	return []kafka.Partition{{ID: 0}}, nil
}

type MockKafkaDialer struct {
	ConnSpy *MockKafkaConn
	Fail    bool
}

func (m *MockKafkaDialer) DialContext(ctx context.Context, network, address string) (sink.KafkaConn, error) {
	if m.Fail {
		return nil, errors.New("dial error")
	}
	if m.ConnSpy == nil {
		m.ConnSpy = &MockKafkaConn{}
	}
	return m.ConnSpy, nil
}
