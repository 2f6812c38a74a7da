package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crawlkit/crawlkit/pkg/chart"
)

func TestSelectComponents(t *testing.T) {
	selected, err := selectComponents(nil)
	require.NoError(t, err)
	assert.Equal(t, chart.Components, selected)

	selected, err = selectComponents([]string{"API", "worker"})
	require.NoError(t, err)
	assert.Equal(t, []chart.Component{chart.ComponentAPI, chart.ComponentWorker}, selected)

	_, err = selectComponents([]string{"loadbalancer"})
	assert.ErrorContains(t, err, "unknown component: loadbalancer")
}

func TestGetCommandTable(t *testing.T) {
	var buf bytes.Buffer

	cmd := NewGetCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"api"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "crawlkit-api")
	assert.Contains(t, out, "crawlkit/crawler-api:1.2.0")
}

func TestRenderCommand(t *testing.T) {
	var buf bytes.Buffer

	cmd := NewRenderCommand()
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "kind: StatefulSet")
	assert.Contains(t, out, "name: crawlkit-database")
	assert.Contains(t, out, "kind: ServiceAccount")
}
