// Package components defines the deployable units crawlkit manages: the four
// crawler stack components rendered from the resolution engine's output, and
// the auxiliary telemetry chart.
package components

import (
	"context"

	flow "github.com/noneback/go-taskflow"
)

// Component represents a deployable unit in the crawlkit system
type Component interface {
	// Name returns the unique component name used for registration and task
	// naming.
	Name() string

	// GetTask returns a task or subflow for deploying this component
	GetTask(ctx context.Context, tf *flow.TaskFlow) *flow.Task
}
