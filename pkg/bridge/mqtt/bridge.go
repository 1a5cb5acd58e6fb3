package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/ctlserial/pkg/bridge"
	"github.com/robotalks/ctlserial/pkg/frame"
)

// Topics under the device name.
const (
	TopicCmd   = "cmd"
	TopicReply = "reply"
	TopicLog   = "log"
	TopicMeta  = "meta"
)

const (
	requestQueueSize = 16
	closeTimeout     = time.Second
)

// Publisher publishes messages.
type Publisher interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Bridge serves Requests received on <device>/cmd and publishes Replies
// on <device>/reply. The device meta is retained on <device>/meta while
// the bridge is connected.
type Bridge struct {
	Queue   *Queue
	Device  bridge.DeviceRef
	Handler bridge.RequestHandler

	pub      Publisher
	metaJSON []byte
	requests chan []byte
	done     chan struct{}
}

// NewBridge creates a Bridge connecting to brokerURL.
func NewBridge(brokerURL string, device bridge.DeviceRef, meta bridge.Meta, handler bridge.RequestHandler) (*Bridge, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+device.Name()+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("ctlserial:" + device.Name())
	}
	q := NewQueue(opts, topicPrefix)
	b, err := newBridge(q, device, meta, handler)
	if err != nil {
		return nil, err
	}
	q.OnConnect = func(*Queue) { b.publishMeta() }
	return b, nil
}

func newBridge(pub Publisher, device bridge.DeviceRef, meta bridge.Meta, handler bridge.RequestHandler) (*Bridge, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	b := &Bridge{
		Device:   device,
		Handler:  handler,
		pub:      pub,
		metaJSON: metaJSON,
		requests: make(chan []byte, requestQueueSize),
		done:     make(chan struct{}),
	}
	if q, ok := pub.(*Queue); ok {
		b.Queue = q
	}
	return b, nil
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "mqtt"
}

// Topic gets the full topic name under the device, without prefix.
func (b *Bridge) Topic(name string) string {
	return b.Device.Name() + "/" + name
}

// Run implements framework.Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	if token := b.Queue.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	sub := b.Queue.Sub(b.Topic(TopicCmd), b.enqueue)
	err := b.serve(ctx)
	sub.Close()
	b.pub.PubWith(b.Topic(TopicMeta), nil, 1, true).WaitTimeout(closeTimeout)
	b.Queue.Close()
	return err
}

// PublishLog publishes a device log line, it can be used as comm.Session.OnLog.
func (b *Bridge) PublishLog(line string) {
	data, err := (&bridge.DeviceLog{Text: strings.TrimPrefix(line, frame.LogPrefix)}).Encode()
	if err != nil {
		glog.Errorf("encode log error: %v", err)
		return
	}
	b.pub.PubWith(b.Topic(TopicLog), data, 0, false)
}

func (b *Bridge) publishMeta() {
	b.pub.PubWith(b.Topic(TopicMeta), b.metaJSON, 1, true)
}

func (b *Bridge) enqueue(topic string, payload []byte) {
	select {
	case b.requests <- payload:
	case <-b.done:
	}
}

func (b *Bridge) serve(ctx context.Context) error {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload := <-b.requests:
			b.handle(payload)
		}
	}
}

func (b *Bridge) handle(payload []byte) {
	var reply *bridge.Reply
	req, err := bridge.DecodeRequest(payload)
	if err != nil {
		glog.Warningf("bad request: %v", err)
		reply = bridge.BadRequest(err)
	} else {
		reply = b.Handler.Handle(req)
	}
	data, err := reply.Encode()
	if err != nil {
		glog.Errorf("encode reply error: %v", err)
		return
	}
	b.pub.PubWith(b.Topic(TopicReply), data, 1, false)
}
