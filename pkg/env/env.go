// Package env provides the identity and broker settings of a daemon.
package env

import (
	"flag"
	"fmt"
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robotalks/softuart/pkg/feed/mqtt"
	"github.com/robotalks/softuart/pkg/softuart"
)

// Config provides common options of softuart daemons and clients.
type Config struct {
	// ID names the device on the broker.
	ID string

	// MQTTBrokerURL specifies the MQTT broker to use, empty to disable.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/softuart/",
}

func init() {
	if val := os.Getenv("SOFTUART_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("SOFTUART_ID"); val != "" {
		defaultConfig.ID = val
	} else {
		defaultConfig.ID = MachineID()
	}
}

// MachineID derives a short device ID from the machine ID.
func MachineID() string {
	id, err := machineid.ProtectedID("softuart")
	if err != nil {
		glog.V(1).Infof("machine id: %v", err)
		host, _ := os.Hostname()
		if host == "" {
			host = "softuart"
		}
		return host
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Device ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Meta describes the transmitter configured by conf.
func (c *Config) Meta(conf *softuart.Config) mqtt.DeviceMeta {
	return mqtt.DeviceMeta{
		ID:         c.ID,
		BaudRate:   conf.BaudRate,
		Parity:     conf.Parity.String(),
		StopBits:   conf.StopBits,
		BufferSize: conf.BufferSize,
	}
}

// NewAnnouncer creates the MQTT announcer, nil if MQTT is disabled.
func (c *Config) NewAnnouncer(conf *softuart.Config) (*mqtt.Announcer, error) {
	if c.MQTTBrokerURL == "" {
		return nil, nil
	}
	if c.ID == "" {
		return nil, fmt.Errorf("device id must be specified")
	}
	a, err := mqtt.NewAnnouncer(c.MQTTBrokerURL, c.Meta(conf))
	if err != nil {
		return nil, fmt.Errorf("create MQTT announcer error: %v", err)
	}
	return a, nil
}

// NewQueue creates an MQTT queue for clients.
func (c *Config) NewQueue() (*mqtt.Queue, error) {
	if c.MQTTBrokerURL == "" {
		return nil, fmt.Errorf("MQTT broker URL must be specified")
	}
	return mqtt.NewQueueFromURL(c.MQTTBrokerURL)
}
