package crawlkit

import (
	"context"
	"errors"

	"k8s.io/cli-runtime/pkg/genericclioptions"

	"github.com/crawlkit/crawlkit/internal/config"
)

// contextKey is an unexported type for context keys to prevent collisions
type contextKey int

const (
	configFlagsKey contextKey = iota
	configKey
)

var (
	// ErrNoConfigFlags is returned when config flags are not found in context
	ErrNoConfigFlags = errors.New("kubernetes config flags not found in context")
	// ErrNoConfig is returned when the crawlkit config is not found in context
	ErrNoConfig = errors.New("crawlkit configuration not found in context")
)

// New creates a context carrying the Kubernetes config flags and the loaded
// crawlkit configuration.
func New(parent context.Context, configFlags *genericclioptions.ConfigFlags, cfg *config.Config) context.Context {
	ctx := context.WithValue(parent, configFlagsKey, configFlags)
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFlags returns the Kubernetes config flags from the context
func ConfigFlags(ctx context.Context) (*genericclioptions.ConfigFlags, error) {
	flags, ok := ctx.Value(configFlagsKey).(*genericclioptions.ConfigFlags)
	if !ok || flags == nil {
		return nil, ErrNoConfigFlags
	}
	return flags, nil
}

// MustConfigFlags returns the config flags or panics if not found
func MustConfigFlags(ctx context.Context) *genericclioptions.ConfigFlags {
	flags, err := ConfigFlags(ctx)
	if err != nil {
		panic(err)
	}
	return flags
}

// Config returns the crawlkit configuration from the context
func Config(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, ErrNoConfig
	}
	return cfg, nil
}

// MustConfig returns the crawlkit configuration or panics if not found
func MustConfig(ctx context.Context) *config.Config {
	cfg, err := Config(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}
