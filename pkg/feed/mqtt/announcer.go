package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/softuart/pkg/msgs"
)

// DeviceMeta describes a transmitter on the broker.
type DeviceMeta struct {
	ID         string `json:"id"`
	BaudRate   uint   `json:"baud"`
	Parity     string `json:"parity"`
	StopBits   uint   `json:"stop_bits"`
	BufferSize int    `json:"buffer"`
}

// Announcer keeps the device meta retained on the broker while running,
// and publishes reports and status.
type Announcer struct {
	Queue  *Queue
	Meta   DeviceMeta
	Topics Topics

	metaJSON []byte
}

// NewAnnouncer creates an Announcer. The meta is cleared by the broker if
// the connection is lost.
func NewAnnouncer(brokerURL string, meta DeviceMeta) (*Announcer, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	topics := DeviceTopics(meta.ID)
	opts.SetBinaryWill(topicPrefix+topics.Meta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("softuart:" + meta.ID)
	}
	a := &Announcer{
		Queue:    NewQueue(opts, topicPrefix),
		Meta:     meta,
		Topics:   topics,
		metaJSON: metaJSON,
	}
	a.Queue.OnConnect = func(*Queue) { a.onConnected() }
	return a, nil
}

// Report implements monitor.Reporter.
func (a *Announcer) Report(ctx context.Context, r *msgs.WireReport) error {
	return a.publish(a.Topics.Wire, r, false)
}

// PublishStatus publishes the retained status.
func (a *Announcer) PublishStatus(st msgs.StatusPb) error {
	return a.publish(a.Topics.Status, msgs.NewStatusEvent(st), true)
}

// Run implements Runnable.
func (a *Announcer) Run(ctx context.Context) error {
	if err := a.Queue.ConnectWait(); err != nil {
		return fmt.Errorf("connect MQTT: %v", err)
	}
	<-ctx.Done()
	a.Queue.PubWith(a.Topics.Meta, nil, 1, true).WaitTimeout(time.Second)
	a.Queue.Close()
	return ctx.Err()
}

func (a *Announcer) publish(topic string, msg msgs.SerializableMessage, retain bool) error {
	pkt, err := msgs.Encode(msg, 0)
	if err != nil {
		return err
	}
	if !a.Queue.Client.IsConnected() {
		return nil
	}
	token := a.Queue.PubWith(topic, pkt, 0, retain)
	if !token.WaitTimeout(PublishTimeout) {
		return context.DeadlineExceeded
	}
	return token.Error()
}

func (a *Announcer) onConnected() {
	glog.Infof("announce %s", a.Meta.ID)
	a.Queue.PubWith(a.Topics.Meta, a.metaJSON, 1, true)
}
