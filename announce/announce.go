// Package announce provides ready-made Announcer implementations for the
// navigation engine: a channel-backed publisher, a zap-backed logger, and a
// fan-out combinator.
package announce

import (
	"context"

	"go.uber.org/zap"

	"github.com/avelaine/historyx"
)

// Published bundles an announcement with the topic it went out on.
type Published struct {
	Topic        string
	Announcement historyx.Announcement
}

// Channel forwards announcements to a Go channel. Publish is non-blocking
// and drops on backpressure.
type Channel struct {
	ch chan<- Published
}

// NewChannel creates a Channel publisher over ch. Buffer ch if backpressure
// handling is needed.
func NewChannel(ch chan<- Published) *Channel {
	return &Channel{ch: ch}
}

func (c *Channel) Publish(ctx context.Context, topic string, a historyx.Announcement) error {
	select {
	case c.ch <- Published{Topic: topic, Announcement: a}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

// Close closes the underlying channel.
func (c *Channel) Close() error {
	close(c.ch)
	return nil
}

// Log writes every announcement to a zap logger at info level.
type Log struct {
	log *zap.Logger
}

// NewLog creates a Log announcer. A nil logger falls back to a no-op one.
func NewLog(l *zap.Logger) *Log {
	if l == nil {
		l = zap.NewNop()
	}
	return &Log{log: l}
}

func (l *Log) Publish(_ context.Context, topic string, a historyx.Announcement) error {
	l.log.Info("navigation",
		zap.String("topic", topic),
		zap.String("url", a.URL),
		zap.Bool("outbound", a.IsOutbound),
		zap.Bool("trigger", a.Options.Trigger),
		zap.Bool("replace", a.Options.Replace))
	return nil
}

// Multi fans an announcement out to several announcers. The first error
// stops the fan-out and is returned.
type Multi struct {
	targets []historyx.Announcer
}

// NewMulti creates a fan-out over targets.
func NewMulti(targets ...historyx.Announcer) *Multi {
	return &Multi{targets: targets}
}

func (m *Multi) Publish(ctx context.Context, topic string, a historyx.Announcement) error {
	for _, t := range m.targets {
		if err := t.Publish(ctx, topic, a); err != nil {
			return err
		}
	}
	return nil
}
