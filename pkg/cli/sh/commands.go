package sh

import (
	"fmt"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/orbus/pkg/l0/comm"
)

// PrintResult prints the result of req.
func PrintResult(c *ishell.Context, req comm.Request, res comm.Result) error {
	if res.Err != nil {
		c.Err(res.Err)
		return res.Err
	}
	s := ShellFrom(c)
	if res.Type == comm.FrameData {
		f := comm.Frame{Type: res.Type, Hash: req.Hash, Command: req.Command, Payload: res.Data}
		c.Println(s.formatFrame(&f))
		return nil
	}
	if s.OutputJSON {
		c.Printf("{\"type\":%q}\n", res.Type.String())
		return nil
	}
	c.Println("OK")
	return nil
}

var (
	// ConnectCmd opens a link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			url := s.Config.LinkURL
			if len(c.Args) > 0 {
				url = c.Args[0]
			}
			if err := s.Connect(url); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the current link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// WatchCmd receives Data frames of more hashes.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "HASH...",
		Func: MustBeConnected(func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				for _, hash := range s.Conn.Client.Link().Registered() {
					c.Println(comm.HashString(hash))
				}
				return
			}
			for _, arg := range c.Args {
				hash, err := comm.ParseHash(arg)
				if err != nil {
					c.Err(err)
					return
				}
				if err := s.Conn.Client.Watch(hash); err != nil {
					c.Err(fmt.Errorf("watch %s: %v", arg, err))
					return
				}
			}
		}),
	}

	// PingCmd sends a keep-alive probe.
	PingCmd = ishell.Cmd{
		Name:    "ping",
		Aliases: []string{"p"},
		Help:    "[CMD]",
		Func: MustBeConnected(func(c *ishell.Context) {
			var cmd byte
			if len(c.Args) > 0 {
				val, err := ParseByte(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				cmd = val
			}
			start := time.Now()
			res := ShellFrom(c).Do(comm.Request{Type: comm.FrameRequest, Hash: comm.AliveHash, Command: cmd})
			if res.Err != nil {
				c.Err(res.Err)
				return
			}
			c.Printf("%s in %s\n", res.Type, time.Since(start))
		}),
	}

	// RequestCmd sends a non-Data frame, a Request by default.
	RequestCmd = ishell.Cmd{
		Name:    "request",
		Aliases: []string{"r", "req"},
		Help:    "HASH CMD [TYPE]",
		Func: MustBeConnected(func(c *ishell.Context) {
			hash, cmd, err := ParseAddress(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			req := comm.Request{Type: comm.FrameRequest, Hash: hash, Command: cmd}
			if len(c.Args) > 2 {
				if req.Type, err = comm.ParseFrameType(c.Args[2]); err != nil {
					c.Err(err)
					return
				}
				if req.Type == comm.FrameData {
					c.Err(fmt.Errorf("use send for Data frames"))
					return
				}
			}
			PrintResult(c, req, ShellFrom(c).Do(req))
		}),
	}

	// SendCmd sends a Data frame.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "HASH CMD [HEX...]",
		Func: MustBeConnected(func(c *ishell.Context) {
			hash, cmd, err := ParseAddress(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			payload, err := ParsePayload(c.Args[2:])
			if err != nil {
				c.Err(err)
				return
			}
			req := comm.Request{Type: comm.FrameData, Hash: hash, Command: cmd, Payload: payload}
			PrintResult(c, req, ShellFrom(c).Do(req))
		}),
	}

	// StatsCmd prints link statistics.
	StatsCmd = ishell.Cmd{
		Name:    "stats",
		Aliases: []string{"st"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			stats := ShellFrom(c).Conn.Client.Link().Stats()
			for _, counter := range comm.Counters() {
				c.Printf("%-16s %d\n", counter, stats.Get(counter))
			}
		}),
	}
)
