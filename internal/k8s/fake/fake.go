// Package fake provides a function-field test double for the k8s.Client
// interface, in the style of client-go's fake packages.
package fake

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
)

// Client implements k8s.Client with overridable function fields.
// Unset fields return empty results.
type Client struct {
	ListResourcesFunc     func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace string, opts k8s.ListOptions) ([]unstructured.Unstructured, error)
	GetResourceFunc       func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error)
	ListEventsFunc        func(ctx context.Context, kubeContext, namespace string, opts k8s.EventOptions) ([]corev1.Event, error)
	GetPodLogsFunc        func(ctx context.Context, kubeContext, namespace, podName, containerName string, tailLines int64) (string, error)
	ListContextsFunc      func(ctx context.Context) ([]k8s.ContextInfo, error)
	GetCurrentContextFunc func(ctx context.Context) (*k8s.ContextInfo, error)
	PingFunc              func(ctx context.Context, kubeContext string) error
}

var _ k8s.Client = (*Client)(nil)

func (c *Client) ListResources(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace string, opts k8s.ListOptions) ([]unstructured.Unstructured, error) {
	if c.ListResourcesFunc != nil {
		return c.ListResourcesFunc(ctx, kubeContext, desc, namespace, opts)
	}
	return nil, nil
}

func (c *Client) GetResource(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
	if c.GetResourceFunc != nil {
		return c.GetResourceFunc(ctx, kubeContext, desc, namespace, name)
	}
	return nil, &k8s.NotFoundError{Resource: desc.Resource, Name: name, Namespace: namespace}
}

func (c *Client) ListEvents(ctx context.Context, kubeContext, namespace string, opts k8s.EventOptions) ([]corev1.Event, error) {
	if c.ListEventsFunc != nil {
		return c.ListEventsFunc(ctx, kubeContext, namespace, opts)
	}
	return nil, nil
}

func (c *Client) GetPodLogs(ctx context.Context, kubeContext, namespace, podName, containerName string, tailLines int64) (string, error) {
	if c.GetPodLogsFunc != nil {
		return c.GetPodLogsFunc(ctx, kubeContext, namespace, podName, containerName, tailLines)
	}
	return "", nil
}

func (c *Client) ListContexts(ctx context.Context) ([]k8s.ContextInfo, error) {
	if c.ListContextsFunc != nil {
		return c.ListContextsFunc(ctx)
	}
	return nil, nil
}

func (c *Client) GetCurrentContext(ctx context.Context) (*k8s.ContextInfo, error) {
	if c.GetCurrentContextFunc != nil {
		return c.GetCurrentContextFunc(ctx)
	}
	return &k8s.ContextInfo{Name: "fake", Current: true}, nil
}

func (c *Client) Ping(ctx context.Context, kubeContext string) error {
	if c.PingFunc != nil {
		return c.PingFunc(ctx, kubeContext)
	}
	return nil
}
