package k8s

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// ListContexts returns all available Kubernetes contexts.
func (c *clusterClient) ListContexts(ctx context.Context) ([]ContextInfo, error) {
	c.logOperation("list-contexts", "", "", "", "")

	if c.config.InCluster {
		// In-cluster mode: return single simulated context
		return []ContextInfo{
			{
				Name:      InClusterContext,
				Cluster:   InClusterContext,
				User:      "serviceaccount",
				Namespace: c.getInClusterNamespace(),
				Current:   true,
			},
		}, nil
	}

	// Kubeconfig mode: return contexts from kubeconfig
	var contexts []ContextInfo

	for contextName, contextInfo := range c.kubeconfigData.Contexts {
		contexts = append(contexts, ContextInfo{
			Name:      contextName,
			Cluster:   contextInfo.Cluster,
			User:      contextInfo.AuthInfo,
			Namespace: contextInfo.Namespace,
			Current:   contextName == c.currentContext,
		})
	}

	// Map iteration order is random; keep the report stable.
	sort.Slice(contexts, func(i, j int) bool {
		return contexts[i].Name < contexts[j].Name
	})

	return contexts, nil
}

// GetCurrentContext returns the currently active context.
func (c *clusterClient) GetCurrentContext(ctx context.Context) (*ContextInfo, error) {
	c.logOperation("get-current-context", c.currentContext, "", "", "")

	if c.config.InCluster {
		// In-cluster mode: return simulated context
		return &ContextInfo{
			Name:      InClusterContext,
			Cluster:   InClusterContext,
			User:      "serviceaccount",
			Namespace: c.getInClusterNamespace(),
			Current:   true,
		}, nil
	}

	contextInfo, exists := c.kubeconfigData.Contexts[c.currentContext]
	if !exists {
		return nil, fmt.Errorf("current context %q does not exist", c.currentContext)
	}

	return &ContextInfo{
		Name:      c.currentContext,
		Cluster:   contextInfo.Cluster,
		User:      contextInfo.AuthInfo,
		Namespace: contextInfo.Namespace,
		Current:   true,
	}, nil
}

// getInClusterNamespace reads the namespace from the service account namespace file.
func (c *clusterClient) getInClusterNamespace() string {
	data, err := os.ReadFile(DefaultNamespacePath)
	if err != nil {
		// Fallback to default namespace if we can't read the file
		return "default"
	}
	return string(data)
}
