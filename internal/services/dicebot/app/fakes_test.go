package app

import (
	"context"
	"errors"
	"sync"

	"github.com/louisbranch/dicebot/internal/random"
)

type fakeTransport struct {
	updates chan Message

	mu       sync.Mutex
	sent     []Reply
	commands []Command
	setErr   error
	sendErr  error
	stopped  int
}

func newFakeTransport(messages ...Message) *fakeTransport {
	updates := make(chan Message, len(messages))
	for _, msg := range messages {
		updates <- msg
	}
	close(updates)
	return &fakeTransport{updates: updates}
}

func (f *fakeTransport) Updates(context.Context) <-chan Message {
	return f.updates
}

func (f *fakeTransport) Send(_ context.Context, reply Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, reply)
	return nil
}

func (f *fakeTransport) SetCommands(_ context.Context, commands []Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = commands
	return f.setErr
}

func (f *fakeTransport) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

func (f *fakeTransport) replies() []Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Reply(nil), f.sent...)
}

// scripted replays values in order, cycling when they run out.
type scripted struct {
	mu     sync.Mutex
	values []int
	next   int
	locks  int
}

func (s *scripted) IntRange(min, max int) (int, error) {
	if max < min {
		return 0, random.ErrEmptyRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return min, nil
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < min || v > max {
		return 0, errors.New("scripted value out of range")
	}
	return v, nil
}

func (s *scripted) Do(fn func(random.Source) error) error {
	s.mu.Lock()
	s.locks++
	s.mu.Unlock()
	return fn(s)
}

func logDiscard(string, ...any) {}

type panicking struct{}

func (panicking) IntRange(int, int) (int, error) { panic("broken source") }

func (panicking) Do(fn func(random.Source) error) error { return fn(panicking{}) }
