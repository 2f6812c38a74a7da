package chart

// Standard label keys following the Kubernetes recommended labels.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// LabelName is the standard label key for the application name.
	LabelName = "app.kubernetes.io/name"

	// LabelInstance is the standard label key for the unique release
	// instance.
	LabelInstance = "app.kubernetes.io/instance"

	// LabelVersion is the standard label key for the application version.
	LabelVersion = "app.kubernetes.io/version"

	// LabelComponent is the standard label key for the component within the
	// stack.
	LabelComponent = "app.kubernetes.io/component"

	// LabelManagedBy is the standard label key for the managing tool.
	LabelManagedBy = "app.kubernetes.io/managed-by"

	// LabelChart is the chart name and version label key.
	LabelChart = "helm.sh/chart"
)

// Label is a single key/value pair.
type Label struct {
	Key   string
	Value string
}

// Labels is an insertion-ordered label set. Ordering is part of the contract:
// composing labels twice for the same inputs yields identical output, with no
// map-iteration nondeterminism.
type Labels []Label

// Get returns the value for key and whether it is present.
func (l Labels) Get(key string) (string, bool) {
	for _, entry := range l {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Map converts the set to a plain map for embedding in object metadata.
func (l Labels) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, entry := range l {
		m[entry.Key] = entry.Value
	}
	return m
}

// IsSubsetOf reports whether every entry of l appears in other with the same
// value.
func (l Labels) IsSubsetOf(other Labels) bool {
	for _, entry := range l {
		v, ok := other.Get(entry.Key)
		if !ok || v != entry.Value {
			return false
		}
	}
	return true
}

// SelectorLabels returns the minimal immutable label subset used to bind
// workload controllers to their pods. These must stay stable across upgrades
// of the same release, so they never include mutable values such as the image
// tag.
func SelectorLabels(chart ChartIdentity, release ReleaseIdentity, values *Values) Labels {
	return Labels{
		{Key: LabelName, Value: ResolveName(chart, values)},
		{Key: LabelInstance, Value: release.Name},
	}
}

// CommonLabels returns the label set shared by every stack resource. Optional
// entries are omitted entirely rather than rendered as empty strings.
func CommonLabels(chart ChartIdentity, release ReleaseIdentity, values *Values) Labels {
	labels := Labels{
		{Key: LabelChart, Value: ResolveChartLabel(chart)},
	}
	labels = append(labels, SelectorLabels(chart, release, values)...)
	if chart.AppVersion != "" {
		labels = append(labels, Label{Key: LabelVersion, Value: chart.AppVersion})
	}
	labels = append(labels, Label{Key: LabelManagedBy, Value: release.Service})
	return labels
}

// ComponentLabels returns the common label set extended with the component
// tag.
func ComponentLabels(component Component, chart ChartIdentity, release ReleaseIdentity, values *Values) Labels {
	labels := CommonLabels(chart, release, values)
	return append(labels, Label{Key: LabelComponent, Value: string(component)})
}

// ComponentSelectorLabels returns the selector subset extended with the
// component tag. It is a strict subset of ComponentLabels for the same
// inputs.
func ComponentSelectorLabels(component Component, chart ChartIdentity, release ReleaseIdentity, values *Values) Labels {
	labels := SelectorLabels(chart, release, values)
	return append(labels, Label{Key: LabelComponent, Value: string(component)})
}
