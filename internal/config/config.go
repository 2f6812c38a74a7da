// Package config loads the crawlkit configuration: chart and release
// identity, the layered values snapshot consumed by the resolution engine,
// and auxiliary chart settings. Defaults live in code; a yaml, toml or json
// file overrides them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/json"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/crawlkit/crawlkit/internal/helm"
	"github.com/crawlkit/crawlkit/pkg/chart"
)

// Chart identity of the crawler stack. The chart version tracks the tool
// release, the app version the packaged crawler services.
const (
	ChartName    = "crawlkit"
	ChartVersion = "0.4.2"
	AppVersion   = "1.2.0"

	// ServiceName is the managed-by identity stamped on every resource.
	ServiceName = "crawlkit"
)

var parserMap = map[string]koanf.Parser{
	".yaml": yaml.Parser(),
	".yml":  yaml.Parser(),
	".toml": toml.Parser(),
	".json": json.Parser(),
}

// ReleaseConfig identifies the stack release being deployed.
type ReleaseConfig struct {
	// Name is the release name.
	Name string `koanf:"name"`

	// Namespace is the Kubernetes namespace the stack is deployed to.
	Namespace string `koanf:"namespace"`
}

// TelemetryConfig configures the auxiliary metrics-server chart backing
// `crawlkit status`.
type TelemetryConfig struct {
	// Enabled controls whether the telemetry chart is deployed at all.
	Enabled bool `koanf:"enabled"`

	// Chart and Release carry the Helm coordinates for the chart.
	Chart   *helm.ChartConfig   `koanf:"chart"`
	Release *helm.ReleaseConfig `koanf:"release"`
}

// Config is the complete crawlkit configuration.
type Config struct {
	Release   ReleaseConfig   `koanf:"release"`
	Values    chart.Values    `koanf:"values"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ChartIdentity returns the fixed chart identity of this build.
func ChartIdentity() chart.ChartIdentity {
	return chart.ChartIdentity{
		Name:       ChartName,
		Version:    ChartVersion,
		AppVersion: AppVersion,
	}
}

// ReleaseIdentity returns the release identity for the configured release.
func (c *Config) ReleaseIdentity() chart.ReleaseIdentity {
	return chart.ReleaseIdentity{
		Name:    c.Release.Name,
		Service: ServiceName,
	}
}

// Default returns the built-in configuration. Component names, ports and
// replica counts mirror the crawler stack's service defaults.
func Default() *Config {
	return &Config{
		Release: ReleaseConfig{
			Name:      "crawlkit",
			Namespace: "crawlkit",
		},
		Values: chart.Values{
			Image: chart.ImageSpec{
				Repository: "crawlkit",
			},
			API: chart.ComponentValues{
				Name:     "crawler-api",
				Replicas: 2,
				Port:     8080,
			},
			Worker: chart.ComponentValues{
				Name:     "crawler-worker",
				Replicas: 2,
			},
			Frontend: chart.ComponentValues{
				Name:     "crawler-frontend",
				Replicas: 1,
				Port:     80,
			},
			Database: chart.DatabaseValues{
				Image: chart.ImageSpec{
					Repository: "postgres",
					Tag:        "15-alpine",
				},
				Port:        5432,
				StorageSize: "8Gi",
			},
			ServiceAccount: chart.ServiceAccountSpec{
				Create: true,
			},
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
			Chart: &helm.ChartConfig{
				RepoURL: "https://kubernetes-sigs.github.io/metrics-server",
				Name:    "metrics-server",
				Version: "3.12.2",
			},
			Release: &helm.ReleaseConfig{
				Namespace: "kube-system",
				Name:      "metrics-server",
				Values: map[string]interface{}{
					"args": []string{
						"--kubelet-insecure-tls",
					},
				},
			},
		},
	}
}

// Load returns the default configuration with the given file merged over it.
// A missing file is not an error; an unsupported extension is.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Debug("config file does not exist", "path", configFile)
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(configFile))
	parser, ok := parserMap[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported config file format: %s", configFile)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configFile), parser); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
	}

	var overrides Config
	if err := k.Unmarshal("", &overrides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", configFile, err)
	}

	if err := mergo.Merge(cfg, &overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config overrides: %w", err)
	}

	log.Info("loaded config file", "path", configFile)
	return cfg, nil
}
