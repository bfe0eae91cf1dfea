package debug

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
	"github.com/mesosphere/mcp-gitops/internal/k8s/fake"
	"github.com/mesosphere/mcp-gitops/internal/server"
)

func newTestContext(t *testing.T, client k8s.Client) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.WithK8sClient(client))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func kustomization(name, namespace, readyStatus, reason, message string) unstructured.Unstructured {
	return unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "kustomize.toolkit.fluxcd.io/v1",
		"kind":       "Kustomization",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"spec": map[string]interface{}{
			"sourceRef": map[string]interface{}{
				"kind": "GitRepository",
				"name": "flux-system",
			},
		},
		"status": map[string]interface{}{
			"conditions": []interface{}{
				map[string]interface{}{
					"type":               "Ready",
					"status":             readyStatus,
					"reason":             reason,
					"message":            message,
					"lastTransitionTime": "2026-08-29T10:15:30.123456789Z",
				},
			},
		},
	}}
}

func TestHandleDebugReconciliation(t *testing.T) {
	client := &fake.Client{
		GetResourceFunc: func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
			obj := kustomization(name, namespace, "False", "HealthCheckFailed", "timeout waiting for Deployment/web")
			return &obj, nil
		},
	}

	result, err := handleDebugReconciliation(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "kustomization", "name": "apps", "namespace": "flux-system"}),
		newTestContext(t, client))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "# Debug Kustomization flux-system/apps")
	assert.Contains(t, text, "**Source:** GitRepository/flux-system")
	assert.Contains(t, text, "## Conditions")
	assert.Contains(t, text, "2026-08-29T10:15:30Z", "timestamp trimmed to seconds")
	assert.Contains(t, text, "## Recommendations")
	assert.Contains(t, text, "health of the deployed resources")
}

func TestHandleDebugReconciliation_MultipleHints(t *testing.T) {
	client := &fake.Client{
		GetResourceFunc: func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
			obj := kustomization(name, namespace, "False", "SourceValidationFailed", "bad manifest from source")
			return &obj, nil
		},
	}

	result, err := handleDebugReconciliation(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "kustomization", "name": "apps"}),
		newTestContext(t, client))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "referenced source is ready")
	assert.Contains(t, text, "syntax and schema errors")
}

func TestHandleDebugReconciliation_ReadyNoHints(t *testing.T) {
	client := &fake.Client{
		GetResourceFunc: func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
			obj := kustomization(name, namespace, "True", "ReconciliationSucceeded", "Applied revision: main@sha1:abc")
			return &obj, nil
		},
	}

	result, err := handleDebugReconciliation(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "kustomization", "name": "apps"}),
		newTestContext(t, client))
	require.NoError(t, err)

	assert.NotContains(t, resultText(t, result), "## Recommendations")
}

func TestHandleDebugReconciliation_Dependencies(t *testing.T) {
	client := &fake.Client{
		GetResourceFunc: func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
			switch name {
			case "apps":
				obj := kustomization(name, namespace, "False", "DependencyNotReady", "dependency not ready")
				_ = unstructured.SetNestedSlice(obj.Object, []interface{}{
					map[string]interface{}{"name": "infra"},
					map[string]interface{}{"name": "crds", "namespace": "flux-system"},
					map[string]interface{}{"name": "missing"},
				}, "spec", "dependsOn")
				return &obj, nil
			case "infra":
				obj := kustomization(name, namespace, "True", "ReconciliationSucceeded", "ok")
				return &obj, nil
			case "crds":
				assert.Equal(t, "flux-system", namespace)
				obj := kustomization(name, namespace, "False", "BuildFailed", "kustomize build failed")
				return &obj, nil
			}
			return nil, &k8s.NotFoundError{Resource: desc.Resource, Name: name, Namespace: namespace}
		},
	}

	result, err := handleDebugReconciliation(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "kustomization", "name": "apps", "namespace": "default"}),
		newTestContext(t, client))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "## Dependencies")
	assert.Contains(t, text, "| default/infra | ✅ Ready |")
	assert.Contains(t, text, "| flux-system/crds | ❌ Failed |")
	assert.Contains(t, text, "| default/missing | ❓ not found |")
}

func TestHandleDebugReconciliation_UnknownType(t *testing.T) {
	result, err := handleDebugReconciliation(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "deployment", "name": "web"}),
		newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "resource_type must be one of kustomization, gitrepository, helmrelease")
}

func TestHandleDebugReconciliation_NotFound(t *testing.T) {
	result, err := handleDebugReconciliation(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "helmrelease", "name": "ghost"}),
		newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")
}

func TestTrimToSeconds(t *testing.T) {
	assert.Equal(t, "2026-08-29T10:15:30Z", trimToSeconds("2026-08-29T10:15:30.999Z"))
	assert.Equal(t, "2026-08-29T10:15:30Z", trimToSeconds("2026-08-29T10:15:30Z"))
	assert.Equal(t, "not-a-time", trimToSeconds("not-a-time"))
	assert.Equal(t, "", trimToSeconds(""))
}

func event(name, eventType, reason, message string, age time.Duration) corev1.Event {
	return corev1.Event{
		ObjectMeta: metav1.ObjectMeta{Name: name + "-event", Namespace: "default"},
		InvolvedObject: corev1.ObjectReference{
			Kind: "Kustomization",
			Name: name,
		},
		Type:          eventType,
		Reason:        reason,
		Message:       message,
		LastTimestamp: metav1.NewTime(time.Now().Add(-age)),
	}
}

func TestHandleGetEvents(t *testing.T) {
	var gotOpts k8s.EventOptions
	client := &fake.Client{
		ListEventsFunc: func(ctx context.Context, kubeContext, namespace string, opts k8s.EventOptions) ([]corev1.Event, error) {
			gotOpts = opts
			return []corev1.Event{
				event("apps", corev1.EventTypeWarning, "ReconciliationFailed", "kustomize build failed", 5*time.Minute),
				event("apps", corev1.EventTypeNormal, "Progressing", "reconciliation in progress", time.Hour),
			}, nil
		},
	}

	result, err := handleGetEvents(context.Background(),
		newRequest(map[string]interface{}{"resource_name": "apps", "event_type": "Warning", "limit": 5}),
		newTestContext(t, client))
	require.NoError(t, err)

	assert.Equal(t, k8s.EventOptions{InvolvedObjectName: "apps", EventType: "Warning", Limit: 5}, gotOpts)

	text := resultText(t, result)
	assert.Contains(t, text, "# Events in default")
	assert.Contains(t, text, "⚠️ Warning")
	assert.Contains(t, text, "ℹ️ Normal")
	assert.Contains(t, text, "Kustomization/apps")
	assert.Contains(t, text, "5m")
	assert.Contains(t, text, "**Total:** 2")
}

func TestHandleGetEvents_InvalidLimit(t *testing.T) {
	result, err := handleGetEvents(context.Background(),
		newRequest(map[string]interface{}{"limit": "lots"}),
		newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "limit must be a number")
}

func TestHandleGetEvents_Empty(t *testing.T) {
	result, err := handleGetEvents(context.Background(), newRequest(nil), newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.Equal(t, "No events found.\n", resultText(t, result))
}

func TestHandleGetPodLogs(t *testing.T) {
	client := &fake.Client{
		GetPodLogsFunc: func(ctx context.Context, kubeContext, namespace, podName, containerName string, tailLines int64) (string, error) {
			assert.Equal(t, "flux-system", namespace)
			assert.Equal(t, "kustomize-controller-abc", podName)
			assert.Equal(t, "manager", containerName)
			assert.Equal(t, int64(50), tailLines)
			return "line one\nline two", nil
		},
	}

	result, err := handleGetPodLogs(context.Background(),
		newRequest(map[string]interface{}{
			"pod_name":   "kustomize-controller-abc",
			"namespace":  "flux-system",
			"container":  "manager",
			"tail_lines": 50,
		}),
		newTestContext(t, client))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "# Logs flux-system/kustomize-controller-abc")
	assert.Contains(t, text, "**Container:** manager")
	assert.Contains(t, text, "```\nline one\nline two\n```")
}

func TestHandleGetPodLogs_MissingPodName(t *testing.T) {
	result, err := handleGetPodLogs(context.Background(), newRequest(nil), newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "pod_name parameter is required")
}

func TestHandleGetPodLogs_InvalidTailLines(t *testing.T) {
	result, err := handleGetPodLogs(context.Background(),
		newRequest(map[string]interface{}{"pod_name": "web", "tail_lines": "many"}),
		newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "tail_lines must be a number")
}

func TestHandleGetResourceYAML(t *testing.T) {
	client := &fake.Client{
		GetResourceFunc: func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
			assert.Equal(t, "kustomizations", desc.Resource)
			obj := kustomization(name, namespace, "True", "ReconciliationSucceeded", "ok")
			return &obj, nil
		},
	}

	result, err := handleGetResourceYAML(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "kustomization", "name": "apps", "namespace": "flux-system"}),
		newTestContext(t, client))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "```yaml\n")
	assert.Contains(t, text, "kind: Kustomization")
	assert.Contains(t, text, "name: apps")
}

func TestHandleGetResourceYAML_ClusterScoped(t *testing.T) {
	client := &fake.Client{
		GetResourceFunc: func(ctx context.Context, kubeContext string, desc k8s.ResourceDescriptor, namespace, name string) (*unstructured.Unstructured, error) {
			assert.Equal(t, "clusterapps", desc.Resource)
			assert.Empty(t, namespace, "cluster-scoped lookups ignore the namespace argument")
			return &unstructured.Unstructured{Object: map[string]interface{}{
				"kind":     "ClusterApp",
				"metadata": map[string]interface{}{"name": name},
			}}, nil
		},
	}

	result, err := handleGetResourceYAML(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "clusterapp", "name": "cert-manager", "namespace": "ignored"}),
		newTestContext(t, client))
	require.NoError(t, err)

	assert.Contains(t, resultText(t, result), "kind: ClusterApp")
}

func TestHandleGetResourceYAML_UnknownType(t *testing.T) {
	result, err := handleGetResourceYAML(context.Background(),
		newRequest(map[string]interface{}{"resource_type": "secret", "name": "creds"}),
		newTestContext(t, &fake.Client{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "resource_type must be one of")
	assert.Contains(t, resultText(t, result), "clusterapp")
}
