package k8s

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
)

// ListResources lists objects of the described kind via the dynamic client.
func (c *clusterClient) ListResources(ctx context.Context, kubeContext string, desc ResourceDescriptor, namespace string, opts ListOptions) ([]unstructured.Unstructured, error) {
	c.logOperation("list", kubeContext, namespace, desc.Resource, "")

	dynamicClient, err := c.getDynamicClient(kubeContext)
	if err != nil {
		return nil, err
	}

	listOpts := metav1.ListOptions{
		LabelSelector: opts.LabelSelector,
		FieldSelector: opts.FieldSelector,
	}

	var resourceInterface dynamic.ResourceInterface
	if desc.Namespaced && namespace != "" {
		resourceInterface = dynamicClient.Resource(desc.GVR()).Namespace(namespace)
	} else {
		resourceInterface = dynamicClient.Resource(desc.GVR())
	}

	list, err := resourceInterface.List(ctx, listOpts)
	if err != nil {
		return nil, classifyListError(err, desc, namespace)
	}

	if c.config.DebugMode && c.config.Logger != nil {
		c.config.Logger.Debug("listed resources",
			"resource", desc.Resource, "namespace", namespace, "count", len(list.Items))
	}

	return list.Items, nil
}

// GetResource retrieves a single object by name via the dynamic client.
func (c *clusterClient) GetResource(ctx context.Context, kubeContext string, desc ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
	c.logOperation("get", kubeContext, namespace, desc.Resource, name)

	dynamicClient, err := c.getDynamicClient(kubeContext)
	if err != nil {
		return nil, err
	}

	var resourceInterface dynamic.ResourceInterface
	if desc.Namespaced && namespace != "" {
		resourceInterface = dynamicClient.Resource(desc.GVR()).Namespace(namespace)
	} else {
		resourceInterface = dynamicClient.Resource(desc.GVR())
	}

	obj, err := resourceInterface.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, classifyGetError(err, desc, namespace, name)
	}

	return obj, nil
}
