package helm

import (
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/registry"
	"helm.sh/helm/v3/pkg/release"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

// Release represents a Helm release manager that handles install/upgrade
// operations for auxiliary charts deployed alongside the crawler stack.
type Release struct {
	RESTClientGetter genericclioptions.RESTClientGetter
	ChartConfig      *ChartConfig
	ReleaseConfig    *ReleaseConfig
	Revision         int
}

// GetActionConfig initializes the Helm action configuration, retrying the
// cluster reachability check to ride out transient apiserver hiccups.
func (r *Release) GetActionConfig() (*action.Configuration, error) {
	registryClient, err := registry.NewClient()
	if err != nil {
		return nil, err
	}

	actionConfig := new(action.Configuration)
	actionConfig.RegistryClient = registryClient

	if err := actionConfig.Init(r.RESTClientGetter, r.ReleaseConfig.Namespace, os.Getenv("HELM_DRIVER"), func(format string, args ...interface{}) {
		log.With("namespace", r.ReleaseConfig.Namespace).With("release", r.ReleaseConfig.Name).Debugf(format, args...)
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize action config: %w", err)
	}

	err = retry.Do(
		func() error {
			return actionConfig.KubeClient.IsReachable()
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kubernetes cluster is not reachable: %w", err)
	}

	return actionConfig, nil
}

// GetChart retrieves the Helm chart based on the provided ChartPathOptions
func (r *Release) GetChart(chartPathOptions action.ChartPathOptions) (*chart.Chart, error) {
	chartPath, err := chartPathOptions.LocateChart(r.ChartConfig.Name, cli.New())
	if err != nil {
		return nil, err
	}

	return loader.Load(chartPath)
}

// InstallConfig returns a configured Install action
func (r *Release) InstallConfig(actionConfig *action.Configuration) *action.Install {
	install := action.NewInstall(actionConfig)

	install.RepoURL = r.ChartConfig.RepoURL
	install.ReleaseName = r.ReleaseConfig.Name
	install.Version = r.ChartConfig.Version

	install.Namespace = r.ReleaseConfig.Namespace
	install.CreateNamespace = true

	install.Wait = true
	install.Timeout = 5 * time.Minute

	return install
}

// Install performs a Helm install operation
func (r *Release) Install() (*Release, error) {
	actionConfig, err := r.GetActionConfig()
	if err != nil {
		return nil, err
	}

	install := r.InstallConfig(actionConfig)

	ch, err := r.GetChart(install.ChartPathOptions)
	if err != nil {
		return nil, err
	}

	values := AddConfigHash(r.ReleaseConfig.Values)

	rel, err := install.Run(ch, values)
	if err != nil {
		return nil, err
	}

	r.Revision = rel.Version
	return r, nil
}

// UpgradeConfig returns a configured Upgrade action
func (r *Release) UpgradeConfig(actionConfig *action.Configuration) *action.Upgrade {
	upgrade := action.NewUpgrade(actionConfig)

	upgrade.Install = true
	upgrade.RepoURL = r.ChartConfig.RepoURL
	upgrade.Version = r.ChartConfig.Version

	upgrade.Namespace = r.ReleaseConfig.Namespace
	upgrade.ResetValues = true
	upgrade.Wait = true
	upgrade.Timeout = 5 * time.Minute

	return upgrade
}

// Upgrade performs a Helm upgrade operation. The upgrade is skipped when the
// config hash of the deployed release matches the new values.
func (r *Release) Upgrade() (*Release, error) {
	values := AddConfigHash(r.ReleaseConfig.Values)

	deployedRelease, err := r.GetDeployedRelease()
	if err != nil {
		return nil, fmt.Errorf("failed to get deployed release: %w", err)
	}

	if !NeedsUpdate(values, deployedRelease) {
		log.Info("No changes detected, skipping upgrade", "name", r.ReleaseConfig.Name)
		r.Revision = deployedRelease.Version
		return r, nil
	}

	actionConfig, err := r.GetActionConfig()
	if err != nil {
		return nil, err
	}

	upgrade := r.UpgradeConfig(actionConfig)

	ch, err := r.GetChart(upgrade.ChartPathOptions)
	if err != nil {
		return nil, err
	}

	rel, err := upgrade.Run(r.ReleaseConfig.Name, ch, values)
	if err != nil {
		return nil, err
	}

	r.Revision = rel.Version
	return r, nil
}

// Exists checks if a release exists
func (r *Release) Exists() (bool, error) {
	actionConfig, err := r.GetActionConfig()
	if err != nil {
		return false, err
	}

	history := action.NewHistory(actionConfig)
	history.Max = 1

	_, err = history.Run(r.ReleaseConfig.Name)
	return err == nil, nil
}

// Uninstall removes a Helm release
func (r *Release) Uninstall() error {
	actionConfig, err := r.GetActionConfig()
	if err != nil {
		return err
	}

	uninstall := action.NewUninstall(actionConfig)
	_, err = uninstall.Run(r.ReleaseConfig.Name)
	if err != nil {
		return fmt.Errorf("failed to uninstall release %s: %w", r.ReleaseConfig.Name, err)
	}

	log.Info("Successfully uninstalled release", "name", r.ReleaseConfig.Name)
	return nil
}

// Deploy installs or upgrades the release based on whether it exists
func (r *Release) Deploy() error {
	exists, err := r.Exists()
	if err != nil {
		return err
	}

	if exists {
		_, err = r.Upgrade()
		return err
	}

	_, err = r.Install()
	return err
}

// GetDeployedRelease retrieves the currently deployed release
func (r *Release) GetDeployedRelease() (*release.Release, error) {
	actionConfig, err := r.GetActionConfig()
	if err != nil {
		return nil, err
	}

	get := action.NewGet(actionConfig)
	return get.Run(r.ReleaseConfig.Name)
}

// GetDeployedManifests retrieves the manifests of the currently deployed release
func (r *Release) GetDeployedManifests() (string, error) {
	deployedRelease, err := r.GetDeployedRelease()
	if err != nil {
		return "", err
	}

	return deployedRelease.Manifest, nil
}
