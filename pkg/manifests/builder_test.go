package manifests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crawlkit/crawlkit/pkg/chart"
)

func testInput() RenderInput {
	return RenderInput{
		Chart: chart.ChartIdentity{
			Name:       "crawlkit",
			Version:    "0.4.2",
			AppVersion: "1.2.0",
		},
		Release: chart.ReleaseIdentity{
			Name:    "prod",
			Service: "crawlkit",
		},
		Namespace: "crawlers",
		Values: &chart.Values{
			Image: chart.ImageSpec{Repository: "crawlkit", Tag: "v2"},
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
				Image:       chart.ImageSpec{Repository: "postgres", Tag: "15-alpine"},
				Port:        5432,
				StorageSize: "8Gi",
			},
			ServiceAccount: chart.ServiceAccountSpec{Create: true},
		},
	}
}

func TestDeployment(t *testing.T) {
	in := testInput()

	deployment := Deployment(chart.ComponentAPI, in)

	assert.Equal(t, "prod-crawlkit-api", deployment.Name)
	assert.Equal(t, "crawlers", deployment.Namespace)
	assert.Equal(t, int32(2), *deployment.Spec.Replicas)

	container := deployment.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "crawlkit/crawler-api:v2", container.Image)
	assert.Equal(t, "prod-crawlkit", deployment.Spec.Template.Spec.ServiceAccountName)

	// Selector labels must be a subset of the pod template labels
	podLabels := deployment.Spec.Template.Labels
	for key, value := range deployment.Spec.Selector.MatchLabels {
		assert.Equal(t, value, podLabels[key])
	}

	assert.Equal(t, "api", deployment.Labels["app.kubernetes.io/component"])
	assert.Equal(t, "crawlkit-0.4.2", deployment.Labels["helm.sh/chart"])
}

func TestDeploymentDatabaseEnv(t *testing.T) {
	in := testInput()

	for _, component := range []chart.Component{chart.ComponentAPI, chart.ComponentWorker} {
		container := Deployment(component, in).Spec.Template.Spec.Containers[0]

		env := map[string]string{}
		for _, e := range container.Env {
			env[e.Name] = e.Value
		}
		assert.Equal(t, "prod-crawlkit-database", env["DB_HOST"], "component %s", component)
		assert.Equal(t, "5432", env["DB_PORT"], "component %s", component)
	}

	frontend := Deployment(chart.ComponentFrontend, in).Spec.Template.Spec.Containers[0]
	assert.Empty(t, frontend.Env)
}

func TestStatefulSet(t *testing.T) {
	in := testInput()

	sts := StatefulSet(in)

	assert.Equal(t, "prod-crawlkit-database", sts.Name)
	assert.Equal(t, "prod-crawlkit-database", sts.Spec.ServiceName)
	assert.Equal(t, int32(1), *sts.Spec.Replicas)
	assert.Equal(t, "postgres:15-alpine", sts.Spec.Template.Spec.Containers[0].Image)
	assert.Equal(t, "database", sts.Labels["app.kubernetes.io/component"])

	require.Len(t, sts.Spec.VolumeClaimTemplates, 1)
	storage := sts.Spec.VolumeClaimTemplates[0].Spec.Resources.Requests["storage"]
	assert.Equal(t, "8Gi", storage.String())
}

func TestStatefulSetWithoutStorage(t *testing.T) {
	in := testInput()
	in.Values.Database.StorageSize = ""

	assert.Empty(t, StatefulSet(in).Spec.VolumeClaimTemplates)
}

func TestService(t *testing.T) {
	in := testInput()

	api := Service(chart.ComponentAPI, in)
	require.NotNil(t, api)
	assert.Equal(t, "prod-crawlkit-api", api.Name)
	assert.Equal(t, int32(8080), api.Spec.Ports[0].Port)
	assert.Equal(t, chart.ComponentSelectorLabels(chart.ComponentAPI, in.Chart, in.Release, in.Values).Map(), api.Spec.Selector)

	database := Service(chart.ComponentDatabase, in)
	require.NotNil(t, database)
	assert.Equal(t, int32(5432), database.Spec.Ports[0].Port)
	assert.Equal(t, "postgres", database.Spec.Ports[0].Name)

	// The worker exposes no port and gets no service
	assert.Nil(t, Service(chart.ComponentWorker, in))
}

func TestServiceAccount(t *testing.T) {
	in := testInput()

	sa := ServiceAccount(in)
	require.NotNil(t, sa)
	assert.Equal(t, "prod-crawlkit", sa.Name)

	in.Values.ServiceAccount.Create = false
	assert.Nil(t, ServiceAccount(in))
}

func TestRenderAll(t *testing.T) {
	in := testInput()

	objects := RenderAll(in)

	// service account + database sts + database svc + 3 deployments + api/frontend svc
	require.Len(t, objects, 8)

	// Database comes first so dependents find it on startup
	kinds := make([]string, 0, len(objects))
	for _, obj := range objects {
		kinds = append(kinds, obj.GetObjectKind().GroupVersionKind().Kind)
	}
	assert.Equal(t, []string{
		"ServiceAccount",
		"StatefulSet", "Service",
		"Deployment", "Service",
		"Deployment",
		"Deployment", "Service",
	}, kinds)
}

func TestEncodeYAML(t *testing.T) {
	in := testInput()

	data, err := EncodeYAML(RenderAll(in))
	require.NoError(t, err)

	documents := strings.Count(string(data), "---\n")
	assert.Equal(t, 8, documents)
	assert.Contains(t, string(data), "name: prod-crawlkit-api")
	assert.Contains(t, string(data), "image: crawlkit/crawler-api:v2")
	assert.Contains(t, string(data), "kind: StatefulSet")
}
