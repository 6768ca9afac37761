package historyx

import "context"

// TopicNavigate is the single topic the engine publishes on.
const TopicNavigate = "history:navigate"

// Announcement is the payload published on every committed or outbound
// navigation.
type Announcement struct {
	URL        string     `json:"url" yaml:"url"`
	IsOutbound bool       `json:"isOutbound,omitempty" yaml:"isOutbound,omitempty"`
	Options    NavOptions `json:"options" yaml:"options"`
}

// Announcer is the outbound publish capability. The engine only ever
// publishes; subscription semantics belong to the implementation. See
// package announce for ready-made ones.
type Announcer interface {
	Publish(ctx context.Context, topic string, a Announcement) error
}
