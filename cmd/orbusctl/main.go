package main

import (
	"github.com/robotalks/orbus/pkg/cli/sh"
	"github.com/robotalks/orbus/pkg/l1/env"

	_ "github.com/robotalks/orbus/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
