package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/orbus/pkg/cli/frames"
	"github.com/robotalks/orbus/pkg/cli/sh"
	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

// Filter returns the entries of hash, all entries if hash is 0.
func Filter(hash byte) []catalog.Entry {
	entries := catalog.Entries()
	if hash == 0 {
		return entries
	}
	filtered := entries[:0]
	for _, e := range entries {
		if e.Hash == hash {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

var (
	// CatalogCmd lists well-known messages.
	CatalogCmd = ishell.Cmd{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Help:    "[HASH]",
		Func: func(c *ishell.Context) {
			var hash byte
			if len(c.Args) > 0 {
				val, err := comm.ParseHash(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				hash = val
			}
			entries := Filter(hash)
			if sh.ShellFrom(c).OutputJSON {
				out, err := json.Marshal(entries)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			for _, e := range entries {
				family, _ := catalog.FamilyName(e.Hash)
				c.Printf("%-12s %s\n", family, e)
			}
		},
	}

	// DecodeCmd decodes a Data payload without a link.
	DecodeCmd = ishell.Cmd{
		Name:    "decode",
		Aliases: []string{"dec"},
		Help:    "HASH CMD HEX...",
		Func: func(c *ishell.Context) {
			hash, cmd, err := sh.ParseAddress(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			payload, err := sh.ParsePayload(c.Args[2:])
			if err != nil {
				c.Err(err)
				return
			}
			f := comm.Frame{Type: comm.FrameData, Hash: hash, Command: cmd, Payload: payload}
			if err := catalog.Validate(&f); err != nil {
				c.Err(err)
				return
			}
			if _, ok := catalog.Name(hash, cmd); !ok {
				c.Err(fmt.Errorf("unknown message %s/%d", comm.HashString(hash), cmd))
				return
			}
			c.Println(frames.Format(&f, sh.ShellFrom(c).OutputJSON))
		},
	}
)

func init() {
	sh.AddCmds(
		&CatalogCmd,
		&DecodeCmd,
	)
}
