// Package chart resolves the canonical Kubernetes identifiers for the
// crawlkit stack: release-qualified resource names, label sets and fully
// qualified image references. Every resolver is a pure function over an
// immutable configuration snapshot, so a render can be repeated (or run per
// component in parallel) and always produce byte-identical output.
package chart

// Component identifies one of the deployable units of the stack. Its value
// doubles as the app.kubernetes.io/component label.
type Component string

const (
	ComponentAPI      Component = "api"
	ComponentWorker   Component = "worker"
	ComponentFrontend Component = "frontend"
	ComponentDatabase Component = "database"
)

// Components lists all deployable units in deployment order.
var Components = []Component{
	ComponentDatabase,
	ComponentAPI,
	ComponentWorker,
	ComponentFrontend,
}

// ChartIdentity describes the chart being rendered.
type ChartIdentity struct {
	// Name is the name of the chart.
	Name string `koanf:"name"`

	// Version is the chart version, SemVer. A build-metadata "+" separator
	// is label-unsafe and gets rewritten by ResolveChartLabel.
	Version string `koanf:"version"`

	// AppVersion is the version of the application packaged by the chart.
	// Optional; used as the terminal image tag fallback and the
	// app.kubernetes.io/version label.
	AppVersion string `koanf:"appVersion"`
}

// ReleaseIdentity describes one deployed instance of the chart.
type ReleaseIdentity struct {
	// Name is the release name, distinct from the chart name.
	Name string `koanf:"name"`

	// Service is the identity of the managing tool, used as the
	// app.kubernetes.io/managed-by label value.
	Service string `koanf:"service"`
}

// GlobalOverrides are values that take precedence over any per-component
// setting when present.
type GlobalOverrides struct {
	// ImageRegistry overrides every component's image registry.
	ImageRegistry string `koanf:"imageRegistry"`
}

// ImageSpec holds the image coordinates for a component. Which fields are
// consulted depends on the component shape, see ResolveImage.
type ImageSpec struct {
	// Registry is the image registry host, e.g. "reg.example.com".
	Registry string `koanf:"registry"`

	// Repository is the repository path. For api/worker/frontend this is the
	// shared base path; for the database it is the complete image path.
	Repository string `koanf:"repository"`

	// Tag is the image tag.
	Tag string `koanf:"tag"`

	// Name is the component-specific path segment appended to the shared
	// repository. Not meaningful for the database.
	Name string `koanf:"name"`
}

// ServiceAccountSpec configures the service account used by the stack pods.
type ServiceAccountSpec struct {
	// Create controls whether a dedicated service account is rendered.
	Create bool `koanf:"create"`

	// Name overrides the generated service account name.
	Name string `koanf:"name"`
}

// ComponentValues is the shared per-component shape used by api, worker and
// frontend.
type ComponentValues struct {
	// Name is a human-readable service identifier, e.g. "crawler-api". It is
	// the fallback image path segment when Image.Name is unset.
	Name string `koanf:"name"`

	// Image holds the component-specific image coordinates. Repository is
	// ignored here; the shared top-level repository is always the base.
	Image ImageSpec `koanf:"image"`

	// Replicas is the desired replica count for the workload.
	Replicas int32 `koanf:"replicas"`

	// Port is the container port exposed by the component's service.
	Port int32 `koanf:"port"`
}

// DatabaseValues is the database-specific shape. Its repository is a complete
// image path and its tag has no cascading fallback.
type DatabaseValues struct {
	// Image holds the full database image coordinates.
	Image ImageSpec `koanf:"image"`

	// Port is the database port.
	Port int32 `koanf:"port"`

	// StorageSize is the persistent volume claim size, e.g. "8Gi".
	StorageSize string `koanf:"storageSize"`
}

// Values is the layered configuration snapshot for one render. It is built
// once per invocation and never mutated afterwards.
type Values struct {
	// NameOverride replaces the chart name in resolved names.
	NameOverride string `koanf:"nameOverride"`

	// FullnameOverride replaces the entire release-qualified name.
	FullnameOverride string `koanf:"fullnameOverride"`

	// Global holds overrides that win over any per-component value.
	Global GlobalOverrides `koanf:"global"`

	// Image is the shared image configuration for api, worker and frontend:
	// base repository, fallback registry and fallback tag.
	Image ImageSpec `koanf:"image"`

	API      ComponentValues `koanf:"api"`
	Worker   ComponentValues `koanf:"worker"`
	Frontend ComponentValues `koanf:"frontend"`
	Database DatabaseValues  `koanf:"database"`

	// ServiceAccount configures the service account shared by the stack.
	ServiceAccount ServiceAccountSpec `koanf:"serviceAccount"`
}

// Component returns the shared-shape values for c. The database does not
// have a shared shape; callers handle it separately.
func (v *Values) Component(c Component) ComponentValues {
	switch c {
	case ComponentAPI:
		return v.API
	case ComponentWorker:
		return v.Worker
	case ComponentFrontend:
		return v.Frontend
	}
	return ComponentValues{}
}
