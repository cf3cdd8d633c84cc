package env

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

type testStream struct {
	writeCh   chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newTestStream() *testStream {
	return &testStream{writeCh: make(chan []byte, 16), closeCh: make(chan struct{})}
}

func (s *testStream) Read(p []byte) (int, error) {
	<-s.closeCh
	return 0, errors.New("closed")
}

func (s *testStream) Write(p []byte) (int, error) {
	select {
	case s.writeCh <- append([]byte(nil), p...):
	default:
	}
	return len(p), nil
}

func (s *testStream) Close() error {
	s.closeOnce.Do(func() { close(s.closeCh) })
	return nil
}

func testConfig(role string) *Config {
	conf := NewConfig()
	conf.Role = role
	conf.Device = "bench"
	conf.LinkURL = "tcp://localhost:7000"
	conf.MQTTBrokerURL = ""
	conf.MetricsAddr = ""
	return conf
}

func TestEnvPeripheral(t *testing.T) {
	conf := testConfig(RolePeripheral)
	conf.Bridge = "S,M,G"
	conf.MQTTBrokerURL = "mqtt://localhost:1883/orbus/"
	e, err := conf.NewEnvWith(newTestStream())
	require.NoError(t, err)
	require.NotNil(t, e.System)
	require.NotNil(t, e.Drive)
	require.NotNil(t, e.Bridge)
	require.Equal(t, "bench", e.Bridge.Bridge.Device)
	require.ElementsMatch(t, []byte{catalog.System, catalog.Motion, catalog.Motor}, e.Link.Registered())
	require.Len(t, e.Runnables(), 2)
}

func TestEnvHostAlive(t *testing.T) {
	conf := testConfig(RoleHost)
	conf.AliveInterval = time.Millisecond
	stream := newTestStream()
	e, err := conf.NewEnvWith(stream)
	require.NoError(t, err)
	require.Nil(t, e.System)
	require.Empty(t, e.Link.Registered())
	require.Len(t, e.Runnables(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx) }()

	expected := comm.AppendPacket(nil, comm.Frame{Type: comm.FrameRequest, Hash: comm.AliveHash, Command: 1})
	select {
	case pkt := <-stream.writeCh:
		require.Equal(t, expected, pkt)
	case <-time.After(time.Second):
		require.Fail(t, "alive probe not sent")
	}
	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "env not stopped")
	}
}

func TestEnvMetrics(t *testing.T) {
	conf := testConfig(RoleHost)
	conf.AliveInterval = 0
	conf.MetricsAddr = "localhost:0"
	e, err := conf.NewEnvWith(newTestStream())
	require.NoError(t, err)
	require.NotNil(t, e.Metrics)
	require.Len(t, e.Runnables(), 2)

	rec := httptest.NewRecorder()
	e.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `orbus_link_events_total{counter="packets",link="bench"} 0`)
}

func TestEnvInvalid(t *testing.T) {
	conf := testConfig("robot")
	_, err := conf.NewEnvWith(newTestStream())
	require.Error(t, err)

	conf = testConfig(RoleHost)
	conf.MQTTBrokerURL = "mqtt://%zz"
	_, err = conf.NewEnvWith(newTestStream())
	require.Error(t, err)
}
