package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/event"
	"github.com/studyway/coursegate/pkg/kafka"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturingPublisher records every published event in memory.
type capturingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []*kafka.Event
	err    error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, evt *kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, evt)
	return nil
}

func (p *capturingPublisher) published(topic string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.topics {
		if t == topic {
			return true
		}
	}
	return false
}

func testProducer() (*event.Producer, *capturingPublisher) {
	pub := &capturingPublisher{}
	return event.NewProducer(pub, testLogger()), pub
}

// stubDispatcher captures dispatched codes and optionally fails.
type stubDispatcher struct {
	err   error
	codes []string
	dests []string
}

func (d *stubDispatcher) Dispatch(_ context.Context, destination, code string) error {
	if d.err != nil {
		return d.err
	}
	d.dests = append(d.dests, destination)
	d.codes = append(d.codes, code)
	return nil
}

// stubLimiter answers every Allow call with a fixed verdict.
type stubLimiter struct {
	allowed bool
	err     error
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	return l.allowed, l.err
}

// stubTokens issues a fixed token.
type stubTokens struct {
	token string
	err   error
}

func (t *stubTokens) GenerateAccessToken(*domain.Account) (string, error) {
	return t.token, t.err
}
