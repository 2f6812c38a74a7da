package components

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	flow "github.com/noneback/go-taskflow"

	"github.com/crawlkit/crawlkit/internal/crawlkit"
	"github.com/crawlkit/crawlkit/internal/helm"
)

// TelemetryComponent deploys the metrics-server chart backing the status
// command's pod metrics.
type TelemetryComponent struct{}

// NewTelemetryComponent creates the telemetry component.
func NewTelemetryComponent() *TelemetryComponent {
	return &TelemetryComponent{}
}

// Name implements Component
func (t *TelemetryComponent) Name() string {
	return "telemetry"
}

// GetTask implements Component. The subflow branches on whether the release
// already exists: fresh clusters install, existing ones upgrade.
func (t *TelemetryComponent) GetTask(ctx context.Context, tf *flow.TaskFlow) *flow.Task {
	return tf.NewSubflow("deploy-"+t.Name(), func(sf *flow.Subflow) {
		cfg := crawlkit.MustConfig(ctx)

		release := &helm.Release{
			RESTClientGetter: crawlkit.MustConfigFlags(ctx),
			ChartConfig:      cfg.Telemetry.Chart,
			ReleaseConfig:    cfg.Telemetry.Release,
		}

		cond := sf.NewCondition(fmt.Sprintf("check-release-exists-%s", release.ReleaseConfig.Name), func() uint {
			exists, err := release.Exists()
			if err != nil {
				log.Fatal("Failed to check if release exists", "error", err)
			}

			if !exists {
				return 0 // install
			}

			return 1 // upgrade
		})

		install := sf.NewTask(fmt.Sprintf("install-release-%s", release.ReleaseConfig.Name), func() {
			log.Info("Installing release", "name", release.ReleaseConfig.Name)

			if _, err := release.Install(); err != nil {
				log.Fatal("Install failed", "error", err)
			}

			log.Info("Successfully installed release", "name", release.ReleaseConfig.Name, "revision", release.Revision)
		})

		upgrade := sf.NewTask(fmt.Sprintf("upgrade-release-%s", release.ReleaseConfig.Name), func() {
			log.Info("Upgrading release", "name", release.ReleaseConfig.Name)

			if _, err := release.Upgrade(); err != nil {
				log.Fatal("Upgrade failed", "error", err)
			}

			log.Info("Successfully upgraded release", "name", release.ReleaseConfig.Name, "revision", release.Revision)
		})

		cond.Precede(install, upgrade)
	})
}
