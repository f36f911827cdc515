package mqtt

// Topics are the per-device topics, relative to the queue prefix.
type Topics struct {
	// Meta carries the retained DeviceMeta, cleared when offline.
	Meta string
	// Tx carries Typed commands to the device.
	Tx string
	// Rx carries replies from the device.
	Rx string
	// Raw carries bytes to transmit as-is.
	Raw string
	// Wire carries WireReport events.
	Wire string
	// Status carries the retained Status event.
	Status string
}

// MetaFilter matches the meta topics of all devices.
const MetaFilter = "+/meta"

// DeviceTopics returns the topics of the device.
func DeviceTopics(id string) Topics {
	return Topics{
		Meta:   id + "/meta",
		Tx:     id + "/tx",
		Rx:     id + "/rx",
		Raw:    id + "/raw",
		Wire:   id + "/wire",
		Status: id + "/status",
	}
}
