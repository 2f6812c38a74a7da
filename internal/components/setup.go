package components

import (
	"context"

	"github.com/charmbracelet/log"
	flow "github.com/noneback/go-taskflow"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/crawlkit/crawlkit/internal/crawlkit"
	"github.com/crawlkit/crawlkit/pkg/manifests"
)

// SetupComponent prepares the target namespace and the shared service account
// before any workload is deployed.
type SetupComponent struct{}

// NewSetupComponent creates the setup component.
func NewSetupComponent() *SetupComponent {
	return &SetupComponent{}
}

// Name implements Component
func (s *SetupComponent) Name() string {
	return "setup"
}

// GetTask implements Component
func (s *SetupComponent) GetTask(ctx context.Context, tf *flow.TaskFlow) *flow.Task {
	return tf.NewTask("deploy-"+s.Name(), func() {
		cfg := crawlkit.MustConfig(ctx)
		getter := crawlkit.MustConfigFlags(ctx)

		client, err := manifests.NewClient(getter, cfg.Release.Namespace)
		if err != nil {
			log.Fatal("Failed to create manifest client", "name", s.Name(), "error", err)
		}

		if err := client.EnsureNamespaceExists(ctx, cfg.Release.Namespace); err != nil {
			log.Fatal("Failed to create namespace", "namespace", cfg.Release.Namespace, "error", err)
		}

		if sa := manifests.ServiceAccount(RenderInput(cfg)); sa != nil {
			if err := client.Apply(ctx, []runtime.Object{sa}); err != nil {
				log.Fatal("Failed to apply service account", "error", err)
			}
		}
	})
}
