package manifests

import (
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/dynamic"

	"github.com/crawlkit/crawlkit/pkg/chart"
)

// RenderInput carries the immutable configuration snapshot one render of the
// stack manifests is computed from.
type RenderInput struct {
	// Chart identifies the chart being rendered.
	Chart chart.ChartIdentity

	// Release identifies the deployed instance.
	Release chart.ReleaseIdentity

	// Namespace is the target namespace for all namespaced resources.
	Namespace string

	// Values is the layered values snapshot.
	Values *chart.Values
}

// Client provides methods for applying Kubernetes manifests
type Client struct {
	dynamicClient dynamic.Interface
	restMapper    meta.RESTMapper
	namespace     string
}
