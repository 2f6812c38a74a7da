package components

import (
	"context"

	"github.com/charmbracelet/log"
	flow "github.com/noneback/go-taskflow"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/crawlkit/crawlkit/internal/config"
	"github.com/crawlkit/crawlkit/internal/crawlkit"
	"github.com/crawlkit/crawlkit/pkg/chart"
	"github.com/crawlkit/crawlkit/pkg/manifests"
)

// StackComponent deploys one of the crawler stack components from rendered
// manifests.
type StackComponent struct {
	component chart.Component
}

// NewStackComponent creates a component for one of the stack's deployable
// units.
func NewStackComponent(component chart.Component) *StackComponent {
	return &StackComponent{component: component}
}

// Name implements Component
func (s *StackComponent) Name() string {
	return string(s.component)
}

// Objects renders the manifests owned by this component: the workload and,
// when the component exposes a port, its service.
func (s *StackComponent) Objects(in manifests.RenderInput) []runtime.Object {
	var objects []runtime.Object

	if s.component == chart.ComponentDatabase {
		objects = append(objects, manifests.StatefulSet(in))
	} else {
		objects = append(objects, manifests.Deployment(s.component, in))
	}

	if svc := manifests.Service(s.component, in); svc != nil {
		objects = append(objects, svc)
	}

	return objects
}

// GetTask implements Component
func (s *StackComponent) GetTask(ctx context.Context, tf *flow.TaskFlow) *flow.Task {
	return tf.NewTask("deploy-"+s.Name(), func() {
		cfg := crawlkit.MustConfig(ctx)
		getter := crawlkit.MustConfigFlags(ctx)

		in := RenderInput(cfg)

		log.Info("Deploying component", "name", s.Name(), "namespace", cfg.Release.Namespace)

		client, err := manifests.NewClient(getter, cfg.Release.Namespace)
		if err != nil {
			log.Fatal("Failed to create manifest client", "name", s.Name(), "error", err)
		}

		if err := client.Apply(ctx, s.Objects(in)); err != nil {
			log.Fatal("Failed to apply manifests", "name", s.Name(), "error", err)
		}

		log.Info("Successfully deployed component", "name", s.Name())
	})
}

// RenderInput builds the manifest render input from the loaded configuration.
func RenderInput(cfg *config.Config) manifests.RenderInput {
	return manifests.RenderInput{
		Chart:     config.ChartIdentity(),
		Release:   cfg.ReleaseIdentity(),
		Namespace: cfg.Release.Namespace,
		Values:    &cfg.Values,
	}
}
