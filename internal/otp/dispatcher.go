package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/studyway/coursegate/internal/domain"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a random zero-padded 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Dispatcher fans a code out to every configured sender. Delivery is
// best-effort per channel: the dispatch succeeds if at least one sender
// accepts the message, and fails with domain.ErrDeliveryFailed only when all
// of them refuse.
type Dispatcher struct {
	senders []Sender
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher over the given senders.
func NewDispatcher(logger *slog.Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders, logger: logger}
}

// Dispatch sends the code through every channel and reports whether any of
// them accepted it. Per-channel failures are logged, never returned on their
// own.
func (d *Dispatcher) Dispatch(ctx context.Context, destination, code string) error {
	if len(d.senders) == 0 {
		return domain.ErrDeliveryFailed
	}

	accepted := 0
	for _, s := range d.senders {
		if err := s.Send(ctx, destination, code); err != nil {
			d.logger.Warn("verification code delivery failed",
				slog.String("channel", s.Name()),
				slog.String("destination", destination),
				slog.String("error", err.Error()),
			)
			continue
		}
		accepted++
	}

	if accepted == 0 {
		return domain.ErrDeliveryFailed
	}
	return nil
}
