package websocket

import (
	"sync"

	"github.com/robotalks/softuart/pkg/feed"
)

type pumpSet struct {
	lock  sync.RWMutex
	pumps map[*feed.Pump]struct{}
}

func (s *pumpSet) add(p *feed.Pump) {
	s.lock.Lock()
	if s.pumps == nil {
		s.pumps = make(map[*feed.Pump]struct{})
	}
	s.pumps[p] = struct{}{}
	s.lock.Unlock()
}

func (s *pumpSet) remove(p *feed.Pump) {
	s.lock.Lock()
	delete(s.pumps, p)
	s.lock.Unlock()
}

func (s *pumpSet) list() []*feed.Pump {
	s.lock.RLock()
	defer s.lock.RUnlock()
	pumps := make([]*feed.Pump, 0, len(s.pumps))
	for p := range s.pumps {
		pumps = append(pumps, p)
	}
	return pumps
}
