package workflows

import (
	"context"

	"github.com/charmbracelet/log"
	flow "github.com/noneback/go-taskflow"

	"github.com/crawlkit/crawlkit/internal/components"
	"github.com/crawlkit/crawlkit/internal/crawlkit"
)

// CreateDeployWorkflow creates and returns the deployment TaskFlow.
//
// The database comes up first so the api and worker find it on boot, the
// frontend last so it never serves against a half-deployed backend. Telemetry
// only depends on the namespace existing.
func CreateDeployWorkflow(ctx context.Context) (*flow.TaskFlow, error) {
	cfg, err := crawlkit.Config(ctx)
	if err != nil {
		return nil, err
	}

	registry := components.DefaultRegistry()
	tf := flow.NewTaskFlow("deploy")

	task := func(name string) *flow.Task {
		component, err := registry.Get(name)
		if err != nil {
			log.Fatal("Unknown component", "name", name, "error", err)
		}
		return component.GetTask(ctx, tf)
	}

	setup := task("setup")
	database := task("database")
	api := task("api")
	worker := task("worker")
	frontend := task("frontend")

	database.Succeed(setup)
	api.Succeed(database)
	worker.Succeed(database)
	frontend.Succeed(api, worker)

	if cfg.Telemetry.Enabled {
		task("telemetry").Succeed(setup)
	}

	return tf, nil
}
