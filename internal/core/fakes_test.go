package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeClock is a Clock whose time only moves when the test says so.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errInjected = errors.New("injected failure")

// fakeKV is an in-memory KeyValueStore whose operations can be made to fail.
type fakeKV struct {
	mu        sync.Mutex
	data      map[string]string
	failGet   bool
	failSet   bool
	failDel   bool
	setCalls  int
	lastValue string
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string]string)} }

func (s *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", false, errInjected
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.failSet {
		return errInjected
	}
	s.data[key] = value
	s.lastValue = value
	return nil
}

func (s *fakeKV) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel {
		return errInjected
	}
	delete(s.data, key)
	return nil
}

// recordedEvent is one call to recordingEvents.LogEvent.
type recordedEvent struct {
	Type string
	Data map[string]any
}

type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEvents) LogEvent(eventType string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Data: data})
	return nil
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// scriptedIDs hands out ids from a fixed list, then fails.
type scriptedIDs struct {
	ids []string
}

func (g *scriptedIDs) GenerateTaskID(_ context.Context) (string, error) {
	if len(g.ids) == 0 {
		return "", errors.New("out of ids")
	}
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id, nil
}
