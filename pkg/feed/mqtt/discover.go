package mqtt

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/softuart/pkg/msgs"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover collects the retained meta of all online devices.
func Discover(ctx context.Context, q *Queue, timeout time.Duration) ([]DeviceMeta, error) {
	resCh := make(chan DeviceMeta, 16)
	sub := q.Sub(MetaFilter, Handler(func(topic string, payload []byte) {
		if meta, ok := parseMeta(topic, payload); ok {
			select {
			case resCh <- meta:
			case <-time.After(time.Second):
			}
		}
	}))
	defer sub.Close()

	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	found := make(map[string]DeviceMeta)
	expire := time.After(timeout)
	for {
		select {
		case meta := <-resCh:
			found[meta.ID] = meta
		case <-expire:
			res := make([]DeviceMeta, 0, len(found))
			for _, meta := range found {
				res = append(res, meta)
			}
			sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
			return res, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Watch subscribes to the WireReports of a device. Use "+" for all.
func Watch(q *Queue, id string, fn func(id string, r *msgs.WireReport)) *Subscription {
	return q.Sub(DeviceTopics(id).Wire, Handler(func(topic string, payload []byte) {
		msg, _, err := msgs.Decode(payload)
		if err != nil {
			glog.Warningf("%s: %v", topic, err)
			return
		}
		if r, ok := msg.(*msgs.WireReport); ok {
			fn(strings.SplitN(topic, "/", 2)[0], r)
		}
	}))
}

func parseMeta(topic string, payload []byte) (meta DeviceMeta, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 2 || len(payload) == 0 {
		return
	}
	if err := json.Unmarshal(payload, &meta); err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	if meta.ID == "" {
		meta.ID = items[0]
	}
	return meta, meta.ID == items[0]
}
