package k8s

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Client defines the read-only interface for cluster introspection.
// It supports multi-cluster operation by accepting kubecontext parameters
// on every call; an empty kubecontext targets the current context.
type Client interface {
	// ListResources lists objects of the described kind. An empty namespace
	// lists across all namespaces for namespaced kinds.
	ListResources(ctx context.Context, kubeContext string, desc ResourceDescriptor, namespace string, opts ListOptions) ([]unstructured.Unstructured, error)

	// GetResource retrieves a single object by name.
	GetResource(ctx context.Context, kubeContext string, desc ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error)

	// ListEvents lists events in a namespace, newest first.
	ListEvents(ctx context.Context, kubeContext, namespace string, opts EventOptions) ([]corev1.Event, error)

	// GetPodLogs returns the tail of a pod container's log.
	GetPodLogs(ctx context.Context, kubeContext, namespace, podName, containerName string, tailLines int64) (string, error)

	// ListContexts returns all available Kubernetes contexts.
	ListContexts(ctx context.Context) ([]ContextInfo, error)

	// GetCurrentContext returns the currently active context.
	GetCurrentContext(ctx context.Context) (*ContextInfo, error)

	// Ping verifies API server connectivity for the given context.
	Ping(ctx context.Context, kubeContext string) error
}

// ContextInfo represents information about a Kubernetes context.
type ContextInfo struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace"`
	Current   bool   `json:"current"`
}

// ListOptions provides configuration for list operations.
type ListOptions struct {
	LabelSelector string `json:"labelSelector,omitempty"`
	FieldSelector string `json:"fieldSelector,omitempty"`
}

// EventOptions narrows an event query.
type EventOptions struct {
	// InvolvedObjectName limits events to those involving the named object.
	InvolvedObjectName string `json:"involvedObjectName,omitempty"`

	// EventType limits events to the given type ("Normal" or "Warning").
	EventType string `json:"eventType,omitempty"`

	// Limit caps the number of events returned. Zero applies DefaultEventLimit.
	Limit int `json:"limit,omitempty"`
}
