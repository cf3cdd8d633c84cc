package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/orbus/pkg/cli/frames"
	"github.com/robotalks/orbus/pkg/l0/comm"
	"github.com/robotalks/orbus/pkg/l1/bridge"
	"github.com/robotalks/orbus/pkg/l1/mqtt"
)

var (
	mqttURL    = "mqtt://localhost:1883/orbus/"
	device     = "+"
	outputJSON bool
)

func init() {
	if val := os.Getenv("ORBUS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&device, "device", device, "Device to monitor, + for all.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print frames in JSON.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	opts, prefix, err := mqtt.ClientOptionsFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q := mqtt.NewQueue(opts, prefix)
	q.Sub(device+"/#", func(topic string, payload []byte) {
		t, err := bridge.ParseTopic(topic)
		if err != nil {
			log.Printf("%s: %v", topic, err)
			return
		}
		data, err := bridge.DecodePayload(payload)
		if err != nil {
			log.Printf("%s: bad payload: %v", topic, err)
			return
		}
		f := comm.Frame{Type: t.Type, Hash: t.Hash, Command: t.Command, Payload: data}
		log.Printf("%s %s: %s", t.Device, t.Dir, frames.Format(&f, outputJSON))
	})
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
