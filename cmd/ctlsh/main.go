package main

import (
	"flag"
	"log"

	"github.com/robotalks/ctlserial/pkg/bridge/websocket"
	"github.com/robotalks/ctlserial/pkg/cli/sh"
	"github.com/robotalks/ctlserial/pkg/comm"
	"github.com/robotalks/ctlserial/pkg/comm/port"
)

//go-build: CGO_ENABLED=0

var (
	remoteURL string
	debug     bool
)

func init() {
	port.SetupFlags()
	flag.StringVar(&remoteURL, "remote", remoteURL, "Bridge websocket endpoint, e.g. ws://host:8080/ctl.")
	flag.BoolVar(&debug, "debug", debug, "Trace protocol traffic.")
}

func main() {
	flag.Parse()

	if remoteURL != "" {
		client, err := websocket.Dial(remoteURL)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
		sh.NewRemote(client).Run(flag.Args()...)
		return
	}

	p, err := port.NewConfig().Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer p.Close()
	s := comm.NewSession(p)
	s.SetDebug(debug)
	sh.New(s).Run(flag.Args()...)
}
