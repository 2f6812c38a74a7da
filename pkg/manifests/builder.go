// Package manifests turns the resolved chart identifiers into typed
// Kubernetes objects and applies them to a cluster. The builders embed the
// resolution engine's output verbatim; they do not re-derive or validate any
// name, label or image reference.
package manifests

import (
	"bytes"
	"fmt"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/crawlkit/crawlkit/pkg/chart"
)

// metricsPort is the Prometheus scrape port exposed by the api and worker
// containers.
const metricsPort = 8000

// componentName returns the resource name for one component:
// "<fullname>-<component>".
func componentName(component chart.Component, in RenderInput) string {
	return chart.ResolveFullName(in.Chart, in.Release, in.Values) + "-" + string(component)
}

// ServiceAccount builds the shared service account, or nil when creation is
// disabled.
func ServiceAccount(in RenderInput) *corev1.ServiceAccount {
	if !in.Values.ServiceAccount.Create {
		return nil
	}

	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "ServiceAccount",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      chart.ResolveServiceAccountName(in.Chart, in.Release, in.Values),
			Namespace: in.Namespace,
			Labels:    chart.CommonLabels(in.Chart, in.Release, in.Values).Map(),
		},
	}
}

// Deployment builds the workload for one of the stateless components (api,
// worker, frontend).
func Deployment(component chart.Component, in RenderInput) *appsv1.Deployment {
	values := in.Values
	componentValues := values.Component(component)

	container := corev1.Container{
		Name:  string(component),
		Image: chart.ResolveImage(component, in.Chart, values),
	}
	if componentValues.Port != 0 {
		container.Ports = append(container.Ports, corev1.ContainerPort{
			Name:          "http",
			ContainerPort: componentValues.Port,
			Protocol:      corev1.ProtocolTCP,
		})
	}
	if component == chart.ComponentAPI || component == chart.ComponentWorker {
		container.Ports = append(container.Ports, corev1.ContainerPort{
			Name:          "metrics",
			ContainerPort: metricsPort,
			Protocol:      corev1.ProtocolTCP,
		})
		container.Env = databaseEnv(in)
	}

	replicas := componentValues.Replicas

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      componentName(component, in),
			Namespace: in.Namespace,
			Labels:    chart.ComponentLabels(component, in.Chart, in.Release, values).Map(),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: chart.ComponentSelectorLabels(component, in.Chart, in.Release, values).Map(),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: chart.ComponentLabels(component, in.Chart, in.Release, values).Map(),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: chart.ResolveServiceAccountName(in.Chart, in.Release, values),
					Containers:         []corev1.Container{container},
				},
			},
		},
	}
}

// StatefulSet builds the database workload with its persistent volume claim.
func StatefulSet(in RenderInput) *appsv1.StatefulSet {
	values := in.Values
	component := chart.ComponentDatabase
	one := int32(1)

	podSpec := corev1.PodSpec{
		ServiceAccountName: chart.ResolveServiceAccountName(in.Chart, in.Release, values),
		Containers: []corev1.Container{
			{
				Name:  string(component),
				Image: chart.ResolveImage(component, in.Chart, values),
				Ports: []corev1.ContainerPort{
					{
						Name:          "postgres",
						ContainerPort: values.Database.Port,
						Protocol:      corev1.ProtocolTCP,
					},
				},
			},
		},
	}

	sts := &appsv1.StatefulSet{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "StatefulSet",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      componentName(component, in),
			Namespace: in.Namespace,
			Labels:    chart.ComponentLabels(component, in.Chart, in.Release, values).Map(),
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    &one,
			ServiceName: componentName(component, in),
			Selector: &metav1.LabelSelector{
				MatchLabels: chart.ComponentSelectorLabels(component, in.Chart, in.Release, values).Map(),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: chart.ComponentLabels(component, in.Chart, in.Release, values).Map(),
				},
				Spec: podSpec,
			},
		},
	}

	if values.Database.StorageSize != "" {
		quantity, err := resource.ParseQuantity(values.Database.StorageSize)
		if err == nil {
			sts.Spec.VolumeClaimTemplates = []corev1.PersistentVolumeClaim{
				{
					ObjectMeta: metav1.ObjectMeta{
						Name: "data",
					},
					Spec: corev1.PersistentVolumeClaimSpec{
						AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
						Resources: corev1.VolumeResourceRequirements{
							Requests: corev1.ResourceList{
								corev1.ResourceStorage: quantity,
							},
						},
					},
				},
			}
		}
	}

	return sts
}

// Service builds the service for a component, or nil for components that do
// not expose a port.
func Service(component chart.Component, in RenderInput) *corev1.Service {
	values := in.Values

	var port int32
	var portName string
	switch component {
	case chart.ComponentDatabase:
		port = values.Database.Port
		portName = "postgres"
	default:
		port = values.Component(component).Port
		portName = "http"
	}
	if port == 0 {
		return nil
	}

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      componentName(component, in),
			Namespace: in.Namespace,
			Labels:    chart.ComponentLabels(component, in.Chart, in.Release, values).Map(),
		},
		Spec: corev1.ServiceSpec{
			Selector: chart.ComponentSelectorLabels(component, in.Chart, in.Release, values).Map(),
			Ports: []corev1.ServicePort{
				{
					Name:     portName,
					Port:     port,
					Protocol: corev1.ProtocolTCP,
				},
			},
		},
	}
}

// RenderAll builds the full manifest set in a fixed order: service account,
// then per component (database first) the workload and its service.
func RenderAll(in RenderInput) []runtime.Object {
	var objects []runtime.Object

	if sa := ServiceAccount(in); sa != nil {
		objects = append(objects, sa)
	}

	for _, component := range chart.Components {
		if component == chart.ComponentDatabase {
			objects = append(objects, StatefulSet(in))
		} else {
			objects = append(objects, Deployment(component, in))
		}
		if svc := Service(component, in); svc != nil {
			objects = append(objects, svc)
		}
	}

	return objects
}

// EncodeYAML serializes the objects as a multi-document YAML stream.
func EncodeYAML(objects []runtime.Object) ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range objects {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal object #%d: %w", i, err)
		}
		buf.WriteString("---\n")
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// databaseEnv returns the database connection environment for the api and
// worker containers, pointing at the database service.
func databaseEnv(in RenderInput) []corev1.EnvVar {
	return []corev1.EnvVar{
		{
			Name:  "DB_HOST",
			Value: componentName(chart.ComponentDatabase, in),
		},
		{
			Name:  "DB_PORT",
			Value: strconv.Itoa(int(in.Values.Database.Port)),
		},
	}
}
