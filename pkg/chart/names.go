package chart

import (
	"strings"
	"unicode/utf8"
)

// maxNameLength is the DNS-1123 label limit Kubernetes applies to object
// names.
const maxNameLength = 63

// DefaultServiceAccountName is used when service account creation is disabled
// and no explicit name is configured.
const DefaultServiceAccountName = "default"

// truncateName cuts s down to the DNS-1123 label limit without splitting a
// code point, then strips a single trailing dash left behind by the cut.
func truncateName(s string) string {
	if len(s) > maxNameLength {
		s = s[:maxNameLength]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return strings.TrimSuffix(s, "-")
}

// firstNonEmpty returns the first non-empty candidate, evaluating an ordered
// precedence chain first-match-wins.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// ResolveName returns the base name of the chart: the configured name
// override when present, the chart name otherwise.
func ResolveName(chart ChartIdentity, values *Values) string {
	return truncateName(firstNonEmpty(values.NameOverride, chart.Name))
}

// ResolveFullName returns the release-qualified name used for all stack
// resources. When the release name already contains the base name the release
// name stands alone, avoiding duplicated segments such as "crawler-crawler".
func ResolveFullName(chart ChartIdentity, release ReleaseIdentity, values *Values) string {
	if values.FullnameOverride != "" {
		return truncateName(values.FullnameOverride)
	}

	base := firstNonEmpty(values.NameOverride, chart.Name)
	if strings.Contains(release.Name, base) {
		return truncateName(release.Name)
	}

	return truncateName(release.Name + "-" + base)
}

// ResolveChartLabel returns the chart name and version joined for use as the
// helm.sh/chart label value. SemVer build metadata uses "+", which is not a
// valid label character, so it is rewritten to "_".
func ResolveChartLabel(chart ChartIdentity) string {
	label := strings.ReplaceAll(chart.Name+"-"+chart.Version, "+", "_")
	return truncateName(label)
}

// ResolveServiceAccountName returns the service account name for the stack
// pods. With creation enabled the generated full name backs the explicit
// override; with creation disabled the namespace default is assumed.
func ResolveServiceAccountName(chart ChartIdentity, release ReleaseIdentity, values *Values) string {
	if values.ServiceAccount.Create {
		return firstNonEmpty(values.ServiceAccount.Name, ResolveFullName(chart, release, values))
	}
	return firstNonEmpty(values.ServiceAccount.Name, DefaultServiceAccountName)
}
