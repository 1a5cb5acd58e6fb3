package main

import (
	"flag"
	"log"
	"os"
	"path"

	"github.com/robotalks/ctlserial/pkg/bridge"
	"github.com/robotalks/ctlserial/pkg/bridge/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/ctlserial/"
)

func init() {
	if val := os.Getenv("CTLSERIAL_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

type decodeFunc func([]byte) (interface{ String() string }, error)

var decoders = map[string]decodeFunc{
	mqtt.TopicCmd: func(data []byte) (interface{ String() string }, error) {
		return bridge.DecodeRequest(data)
	},
	mqtt.TopicReply: func(data []byte) (interface{ String() string }, error) {
		return bridge.DecodeReply(data)
	},
	mqtt.TopicLog: func(data []byte) (interface{ String() string }, error) {
		return bridge.DecodeDeviceLog(data)
	},
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		kind := path.Base(topic)
		if kind == mqtt.TopicMeta {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		decode, ok := decoders[kind]
		if !ok {
			log.Printf("%s: %d bytes", topic, len(payload))
			return
		}
		msg, err := decode(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Printf("%s: [%s] %s", topic, kind, msg.String())
	}))
	<-(chan struct{})(nil)
}
