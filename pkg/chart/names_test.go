package chart

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name   string
		chart  ChartIdentity
		values Values
		want   string
	}{
		{
			name:  "chart name by default",
			chart: ChartIdentity{Name: "crawlkit"},
			want:  "crawlkit",
		},
		{
			name:   "name override wins",
			chart:  ChartIdentity{Name: "crawlkit"},
			values: Values{NameOverride: "crawler"},
			want:   "crawler",
		},
		{
			name:  "long names truncate to 63 without trailing dash",
			chart: ChartIdentity{Name: strings.Repeat("a", 62) + "-tail"},
			want:  strings.Repeat("a", 62),
		},
		{
			name:  "empty chart name yields empty result",
			chart: ChartIdentity{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveName(tt.chart, &tt.values)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 63)
			assert.False(t, strings.HasSuffix(got, "-"))
		})
	}
}

func TestResolveFullName(t *testing.T) {
	tests := []struct {
		name    string
		chart   ChartIdentity
		release ReleaseIdentity
		values  Values
		want    string
	}{
		{
			name:    "release name prepended to chart name",
			chart:   ChartIdentity{Name: "crawlkit"},
			release: ReleaseIdentity{Name: "prod"},
			want:    "prod-crawlkit",
		},
		{
			name:    "release name containing chart name stands alone",
			chart:   ChartIdentity{Name: "crawlkit"},
			release: ReleaseIdentity{Name: "crawlkit-prod"},
			want:    "crawlkit-prod",
		},
		{
			name:    "fullname override wins over everything",
			chart:   ChartIdentity{Name: "crawlkit"},
			release: ReleaseIdentity{Name: "prod"},
			values:  Values{FullnameOverride: "pinned-name"},
			want:    "pinned-name",
		},
		{
			name:    "fullname override still truncated",
			chart:   ChartIdentity{Name: "crawlkit"},
			release: ReleaseIdentity{Name: "prod"},
			values:  Values{FullnameOverride: strings.Repeat("b", 62) + "-x"},
			want:    strings.Repeat("b", 62),
		},
		{
			name:    "name override used as base",
			chart:   ChartIdentity{Name: "crawlkit"},
			release: ReleaseIdentity{Name: "prod"},
			values:  Values{NameOverride: "crawler"},
			want:    "prod-crawler",
		},
		{
			name:    "concatenation truncates to 63",
			chart:   ChartIdentity{Name: strings.Repeat("c", 40)},
			release: ReleaseIdentity{Name: strings.Repeat("r", 40)},
			want:    (strings.Repeat("r", 40) + "-" + strings.Repeat("c", 40))[:63],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFullName(tt.chart, tt.release, &tt.values)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 63)
			assert.False(t, strings.HasSuffix(got, "-"))
		})
	}
}

func TestResolveChartLabel(t *testing.T) {
	tests := []struct {
		name  string
		chart ChartIdentity
		want  string
	}{
		{
			name:  "name and version joined",
			chart: ChartIdentity{Name: "crawlkit", Version: "0.4.2"},
			want:  "crawlkit-0.4.2",
		},
		{
			name:  "build metadata separator replaced",
			chart: ChartIdentity{Name: "crawlkit", Version: "0.4.2+build.7"},
			want:  "crawlkit-0.4.2_build.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveChartLabel(tt.chart)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "+")
		})
	}
}

func TestResolveServiceAccountName(t *testing.T) {
	chart := ChartIdentity{Name: "crawlkit"}
	release := ReleaseIdentity{Name: "prod"}

	tests := []struct {
		name   string
		values Values
		want   string
	}{
		{
			name:   "created without explicit name uses full name",
			values: Values{ServiceAccount: ServiceAccountSpec{Create: true}},
			want:   "prod-crawlkit",
		},
		{
			name:   "created with explicit name",
			values: Values{ServiceAccount: ServiceAccountSpec{Create: true, Name: "crawler-sa"}},
			want:   "crawler-sa",
		},
		{
			name:   "not created without explicit name falls back to default",
			values: Values{},
			want:   "default",
		},
		{
			name:   "not created with explicit name",
			values: Values{ServiceAccount: ServiceAccountSpec{Name: "existing-sa"}},
			want:   "existing-sa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveServiceAccountName(chart, release, &tt.values))
		})
	}
}

func TestTruncateNameCodePointSafe(t *testing.T) {
	// 31 two-byte runes put the 63-byte cut in the middle of the 32nd rune;
	// the cut must back off to the previous rune boundary.
	s := strings.Repeat("é", 40)
	got := truncateName(s)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 63)
	assert.Equal(t, strings.Repeat("é", 31), got)
}

func TestResolversAreIdempotent(t *testing.T) {
	chart := ChartIdentity{Name: "crawlkit", Version: "0.4.2", AppVersion: "1.2.0"}
	release := ReleaseIdentity{Name: "prod", Service: "crawlkit"}
	values := Values{Image: ImageSpec{Repository: "crawlkit", Tag: "v2"}}

	assert.Equal(t,
		ResolveFullName(chart, release, &values),
		ResolveFullName(chart, release, &values))
	assert.Equal(t,
		CommonLabels(chart, release, &values),
		CommonLabels(chart, release, &values))
	assert.Equal(t,
		ResolveImage(ComponentAPI, chart, &values),
		ResolveImage(ComponentAPI, chart, &values))
}
