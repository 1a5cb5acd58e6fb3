package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/ctlserial/pkg/bridge"
	"github.com/robotalks/ctlserial/pkg/bridge/mqtt"
	"github.com/robotalks/ctlserial/pkg/bridge/websocket"
	"github.com/robotalks/ctlserial/pkg/comm"
	"github.com/robotalks/ctlserial/pkg/env"
	fx "github.com/robotalks/ctlserial/pkg/framework"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := env.NewConfig()
	if err != nil {
		glog.Exit(err)
	}
	if err = conf.Validate(); err != nil {
		glog.Exit(err)
	}
	p, err := conf.Port.Open()
	if err != nil {
		glog.Exit(err)
	}
	s := comm.NewSession(p)
	s.SetDebug(conf.Debug)
	handler := bridge.NewHandler(s)

	runner := fx.NewRunner().HandleSignals()
	if conf.MQTTBrokerURL != "" {
		b, err := mqtt.NewBridge(conf.MQTTBrokerURL, conf.Device, conf.Meta(), handler)
		if err != nil {
			glog.Exit(err)
		}
		s.OnLog = b.PublishLog
		runner.Go(b)
	}
	if conf.ListenAddr != "" {
		runner.Go(websocket.NewServer(conf.ListenAddr, handler))
	}
	glog.Infof("bridging %s as %s", p.Name, conf.Device.Name())

	var errs fx.AggregatedError
	errs.Add(runner.Wait(), p.Close())
	if err := errs.Aggregate(); err != nil {
		glog.Exit(err)
	}
}
