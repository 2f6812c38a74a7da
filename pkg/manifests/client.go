package manifests

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/restmapper"
)

// NewClient creates a new client for applying Kubernetes manifests
func NewClient(getter genericclioptions.RESTClientGetter, namespace string) (*Client, error) {
	config, err := getter.ToRESTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get Kubernetes config: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discovery, err := getter.ToDiscoveryClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	apiGroups, err := restmapper.GetAPIGroupResources(discovery)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}

	return &Client{
		dynamicClient: dynamicClient,
		restMapper:    restmapper.NewDiscoveryRESTMapper(apiGroups),
		namespace:     namespace,
	}, nil
}

// EnsureNamespaceExists creates the namespace if it doesn't already exist
func (c *Client) EnsureNamespaceExists(ctx context.Context, namespace string) error {
	nsObj := &unstructured.Unstructured{}
	nsObj.SetAPIVersion("v1")
	nsObj.SetKind("Namespace")
	nsObj.SetName(namespace)

	mapping, err := c.restMapper.RESTMapping(schema.GroupKind{Group: "", Kind: "Namespace"}, "v1")
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for Namespace: %w", err)
	}

	// Namespaces are cluster-scoped
	dr := c.dynamicClient.Resource(mapping.Resource)

	_, err = dr.Get(ctx, namespace, metav1.GetOptions{})
	if err == nil {
		log.Debug("Namespace already exists", "name", namespace)
		return nil
	}

	log.Info("Creating namespace", "name", namespace)

	if _, err := dr.Create(ctx, nsObj, metav1.CreateOptions{}); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("failed to create namespace %s: %w", namespace, err)
	}

	return nil
}

// Apply creates or updates the given objects in the cluster. Updates retry on
// resource-version conflicts.
func (c *Client) Apply(ctx context.Context, objects []runtime.Object) error {
	log.Info("Applying manifests", "namespace", c.namespace, "count", len(objects))

	for _, object := range objects {
		if err := c.applyObject(ctx, object); err != nil {
			return err
		}
	}

	return nil
}

// applyObject converts a typed object to unstructured form and applies it.
func (c *Client) applyObject(ctx context.Context, object runtime.Object) error {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(object)
	if err != nil {
		return fmt.Errorf("failed to convert object to unstructured: %w", err)
	}
	obj := &unstructured.Unstructured{Object: content}

	gvk := obj.GroupVersionKind()
	mapping, err := c.restMapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %s: %w", gvk.String(), err)
	}

	var dr dynamic.ResourceInterface
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		namespace := obj.GetNamespace()
		if namespace == "" {
			namespace = c.namespace
			obj.SetNamespace(namespace)
		}
		dr = c.dynamicClient.Resource(mapping.Resource).Namespace(namespace)
	} else {
		dr = c.dynamicClient.Resource(mapping.Resource)
	}

	name := obj.GetName()

	return retry.Do(
		func() error {
			existingObj, err := dr.Get(ctx, name, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				result, err := dr.Create(ctx, obj, metav1.CreateOptions{})
				if err != nil {
					return fmt.Errorf("failed to create resource %s/%s: %w", gvk.Kind, name, err)
				}
				log.Info("Created resource",
					"kind", gvk.Kind,
					"name", result.GetName(),
					"namespace", result.GetNamespace(),
				)
				return nil
			} else if err != nil {
				return fmt.Errorf("failed to get resource %s/%s: %w", gvk.Kind, name, err)
			}

			obj.SetResourceVersion(existingObj.GetResourceVersion())
			result, err := dr.Update(ctx, obj, metav1.UpdateOptions{})
			if err != nil {
				return fmt.Errorf("failed to update resource %s/%s: %w", gvk.Kind, name, err)
			}
			log.Info("Updated resource",
				"kind", gvk.Kind,
				"name", result.GetName(),
				"namespace", result.GetNamespace(),
			)
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return apierrors.IsConflict(err) || apierrors.IsServerTimeout(err)
		}),
	)
}
