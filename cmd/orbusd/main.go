package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/orbus/pkg/l1/env"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := env.Load()
	if err != nil {
		log.Fatalln(err)
	}
	e := conf.MustNewEnv()
	glog.Infof("%s %s on %s", conf.Role, conf.Device, conf.LinkURL)
	e.RunOrFail()
}
