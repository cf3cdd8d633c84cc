package env

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/golang/glog"

	fx "github.com/robotalks/orbus/pkg/framework"
	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
	"github.com/robotalks/orbus/pkg/l0/metrics"
	"github.com/robotalks/orbus/pkg/l0/peripheral"
	"github.com/robotalks/orbus/pkg/l0/transport"
	"github.com/robotalks/orbus/pkg/l1/bridge"
	"github.com/robotalks/orbus/pkg/l1/mqtt"
)

var defaultUnicycle = catalog.UnicycleMsg{
	RadiusRight: 0.035,
	RadiusLeft:  0.035,
	Wheelbase:   0.2,
	SpaceMin:    0.001,
}

// Env is a link endpoint assembled from Config.
type Env struct {
	Config *Config
	Stream io.ReadWriteCloser
	Link   *comm.Link

	// Peripheral role only.
	System *peripheral.System
	Drive  *peripheral.Drive

	Bridge  *bridge.Runner
	Metrics *metrics.Server

	aliveSeq byte
}

// NewEnv opens the link and creates Env.
func (c *Config) NewEnv() (*Env, error) {
	stream, err := transport.Open(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("open link %s error: %v", c.LinkURL, err)
	}
	env, err := c.NewEnvWith(stream)
	if err != nil {
		stream.Close()
		return nil, err
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// NewEnvWith creates Env over an opened stream.
func (c *Config) NewEnvWith(stream io.ReadWriteCloser) (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	e := &Env{Config: c, Stream: stream}
	e.Link = comm.NewLinkWith(stream, c.LinkConfig())
	e.Link.IdleTimeout = c.IdleTimeout

	if c.Role == RolePeripheral {
		e.System = &peripheral.System{
			Info:  c.Board,
			Stats: e.Link.Stats(),
			Reset: func() { glog.Info("reset requested") },
		}
		e.Drive = peripheral.NewDrive(defaultUnicycle)
		if err := e.Link.Register(catalog.System, peripheral.Handler(e.System)); err != nil {
			return nil, err
		}
		if err := e.Link.Register(catalog.Motion, peripheral.Handler(e.Drive)); err != nil {
			return nil, err
		}
	}

	if c.MQTTBrokerURL != "" {
		if err := e.setupBridge(); err != nil {
			return nil, err
		}
	}

	if c.MetricsAddr != "" {
		e.Metrics = metrics.NewServer(c.MetricsAddr)
		if err := e.Metrics.Registry.Register(metrics.NewCollector(c.Device, e.Link.Stats())); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Env) setupBridge() error {
	opts, prefix, err := mqtt.ClientOptionsFromURL(e.Config.MQTTBrokerURL)
	if err != nil {
		return fmt.Errorf("invalid MQTT URL %s: %v", e.Config.MQTTBrokerURL, err)
	}
	if opts.ClientID == "" {
		opts.SetClientID("orbus-" + e.Config.Device)
	}
	hashes, err := e.Config.BridgeHashes()
	if err != nil {
		return err
	}
	// hashes served locally are not bridged.
	served := e.Link.Registered()
	bridged := hashes[:0:0]
	for _, hash := range hashes {
		if !containsHash(served, hash) {
			bridged = append(bridged, hash)
		}
	}
	e.Bridge = bridge.NewRunner(e.Config.Device, mqtt.NewQueue(opts, prefix), e.Link)
	return e.Bridge.Bridge.Attach(e.Link, bridged...)
}

func containsHash(hashes []byte, hash byte) bool {
	for _, h := range hashes {
		if h == hash {
			return true
		}
	}
	return false
}

func (e *Env) runLink(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, e.Stream, func() error {
		return e.Link.Run(ctx)
	})
}

// Alive sends one keep-alive probe, the command increases on every probe.
func (e *Env) Alive(context.Context) error {
	e.aliveSeq++
	return e.Link.Send(comm.Frame{Type: comm.FrameRequest, Hash: comm.AliveHash, Command: e.aliveSeq})
}

// Runnables lists the components to run.
func (e *Env) Runnables() []fx.Runnable {
	runners := []fx.Runnable{fx.NamedRun("link", fx.RunFunc(e.runLink))}
	if e.Config.Role == RoleHost && e.Config.AliveInterval > 0 {
		runners = append(runners, fx.NamedRun("alive", &fx.Periodic{
			Interval:     e.Config.AliveInterval,
			Func:         e.Alive,
			IgnoreErrors: true,
			OnError: func(err error) {
				glog.Warningf("alive probe: %v", err)
			},
		}))
	}
	if e.Bridge != nil {
		runners = append(runners, fx.NamedRun("mqtt", e.Bridge))
	}
	if e.Metrics != nil {
		runners = append(runners, fx.NamedRun("metrics", e.Metrics))
	}
	return runners
}

// Run runs all components until ctx is canceled or any of them fails.
func (e *Env) Run(ctx context.Context) error {
	return fx.NewRunnerWith(ctx).Run(e.Runnables()...)
}

// RunOrFail runs with signal handling and exits on error.
func (e *Env) RunOrFail() {
	r := fx.NewRunner().HandleSignals()
	if err := r.Run(e.Runnables()...); err != nil {
		log.Fatalln(err)
	}
}
