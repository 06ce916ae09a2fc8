package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/Izguerra/workflow-builder/pkg/channels/gochannel"
	"github.com/Izguerra/workflow-builder/pkg/eventbus"
)

// NewEventBus creates the in-process event bus wiring the canvas to the
// session manager.
func NewEventBus(logger *slog.Logger) (eventbus.EventBus, error) {
	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create pub/sub channel: %w", err)
	}

	return eventbus.NewWatermillEventBus(pub, sub), nil
}
