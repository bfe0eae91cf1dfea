// Package k8s provides the read-only Kubernetes access layer for the
// mcp-gitops server.
//
// The package exposes a Client interface backed by client-go. Custom
// resources (Flux, Cluster API, Kommander apps, policy engines) are read
// through the dynamic client using the ResourceDescriptor registry; events
// and pod logs go through the typed clientset.
//
// Clients are cached per kubeconfig context so repeated tool calls against
// the same cluster reuse connections. Authentication prefers in-cluster
// service account credentials when configured, falling back to kubeconfig
// (including the KUBECONFIG environment variable).
//
// API errors are classified into a small taxonomy (ErrAPIUnavailable,
// ErrForbidden, ErrNotFound, ErrInvalidArgument) so callers can distinguish
// "the operator is not installed" from "the request was denied" without
// string matching.
package k8s
