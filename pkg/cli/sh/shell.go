package sh

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
	"github.com/robotalks/orbus/pkg/l0/transport"
	"github.com/robotalks/orbus/pkg/l1/env"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool
	Timeout     time.Duration

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is a running link.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	URL    string
	Stream io.ReadWriteCloser
	Client *comm.Client

	doneCh chan struct{}
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	timeout    = time.Second

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&WatchCmd,
		&PingCmd,
		&RequestCmd,
		&SendCmd,
		&StatsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.DurationVar(&timeout, "timeout", timeout, "Request timeout.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     timeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the link at url. The System hash and the configured bridge
// hashes are watched so their Data replies reach the shell.
func (s *Shell) Connect(url string) error {
	stream, err := transport.Open(url)
	if err != nil {
		return err
	}
	link := comm.NewLinkWith(stream, s.Config.LinkConfig())
	link.IdleTimeout = s.Config.IdleTimeout
	conn := &Conn{
		URL:    url,
		Stream: stream,
		Client: comm.NewClient(link),
		doneCh: make(chan struct{}),
	}
	hashes, err := s.Config.BridgeHashes()
	if err != nil {
		stream.Close()
		return err
	}
	if err := conn.Client.Watch(watchList(catalog.System, hashes)...); err != nil {
		stream.Close()
		return err
	}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go s.run(conn)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", url))
	return nil
}

func watchList(first byte, hashes []byte) []byte {
	list := []byte{first}
	for _, hash := range hashes {
		dup := false
		for _, h := range list {
			dup = dup || h == hash
		}
		if !dup {
			list = append(list, hash)
		}
	}
	return list
}

func (s *Shell) run(conn *Conn) {
	defer close(conn.doneCh)
	go func() {
		for {
			select {
			case <-conn.Ctx.Done():
				return
			case f := <-conn.Client.EventChan():
				if s.Interactive {
					s.Shell.Printf("event: %s\n", s.formatFrame(&f))
				}
			}
		}
	}()
	err := conn.Client.Run(conn.Ctx)
	conn.Stream.Close()
	if err != nil && err != context.Canceled {
		glog.Errorf("link %s stopped: %v", conn.URL, err)
		s.Shell.Printf("link %s stopped: %v\n", conn.URL, err)
	}
}

// Disconnect disconnects the current link.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		<-s.Conn.doneCh
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Do sends a request over the current link and waits for the result.
func (s *Shell) Do(req comm.Request) comm.Result {
	if s.Conn == nil {
		return comm.Result{Err: fmt.Errorf("not connected")}
	}
	ctx, cancel := context.WithTimeout(s.Conn.Ctx, s.Timeout)
	defer cancel()
	return s.Conn.Client.Do(ctx, req)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.LinkURL != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.LinkURL)
		}
		if err := s.Connect(s.Config.LinkURL); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.LinkURL, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := env.Load()
	if err != nil {
		log.Fatalln(err)
	}
	New(conf).WithAutoConnect(true).Run(flag.Args()...)
}
