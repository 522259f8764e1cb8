package otp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyway/coursegate/internal/domain"
)

type fakeSender struct {
	name string
	err  error
	sent int
}

func (s *fakeSender) Name() string { return s.name }

func (s *fakeSender) Send(context.Context, string, string) error {
	if s.err != nil {
		return s.err
	}
	s.sent++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		_, err = strconv.Atoi(code)
		require.NoError(t, err, "code must be all digits")
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "codes must not repeat every time")
}

func TestDispatchAllChannels(t *testing.T) {
	a := &fakeSender{name: "a"}
	b := &fakeSender{name: "b"}
	d := NewDispatcher(testLogger(), a, b)

	require.NoError(t, d.Dispatch(context.Background(), "+15551234567", "123456"))
	assert.Equal(t, 1, a.sent)
	assert.Equal(t, 1, b.sent)
}

func TestDispatchOneChannelSuffices(t *testing.T) {
	broken := &fakeSender{name: "broken", err: errors.New("gateway down")}
	working := &fakeSender{name: "working"}
	d := NewDispatcher(testLogger(), broken, working)

	require.NoError(t, d.Dispatch(context.Background(), "+15551234567", "123456"))
	assert.Equal(t, 1, working.sent)
}

func TestDispatchAllChannelsFail(t *testing.T) {
	a := &fakeSender{name: "a", err: errors.New("down")}
	b := &fakeSender{name: "b", err: errors.New("also down")}
	d := NewDispatcher(testLogger(), a, b)

	err := d.Dispatch(context.Background(), "+15551234567", "123456")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

func TestDispatchNoChannels(t *testing.T) {
	d := NewDispatcher(testLogger())
	err := d.Dispatch(context.Background(), "+15551234567", "123456")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}
