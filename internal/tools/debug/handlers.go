package debug

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
	"github.com/mesosphere/mcp-gitops/internal/report"
	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/status"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// reconcilableTypes are the resource types debug_reconciliation accepts.
var reconcilableTypes = map[string]struct {
	kind string
	desc k8s.ResourceDescriptor
}{
	"kustomization": {"Kustomization", k8s.Kustomizations},
	"gitrepository": {"GitRepository", k8s.GitRepositories},
	"helmrelease":   {"HelmRelease", k8s.HelmReleases},
}

// yamlTypes are the resource types get_resource_yaml accepts.
var yamlTypes = map[string]k8s.ResourceDescriptor{
	"kustomization": k8s.Kustomizations,
	"gitrepository": k8s.GitRepositories,
	"helmrelease":   k8s.HelmReleases,
	"cluster":       k8s.Clusters,
	"machine":       k8s.Machines,
	"app":           k8s.Apps,
	"clusterapp":    k8s.ClusterApps,
}

// recommendations maps failure-reason substrings to remediation hints. The
// rules are deterministic on purpose: every matching substring appends its
// own line.
var recommendations = []struct {
	substring string
	hint      string
}{
	{"Source", "Check that the referenced source is ready and its artifact is available."},
	{"Validation", "Check the manifests for syntax and schema errors."},
	{"Health", "Check the health of the deployed resources."},
}

// handleDebugReconciliation renders the troubleshooting view of one Flux
// resource.
func handleDebugReconciliation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	resourceType, err := tools.RequiredStringArg(request, "resource_type")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}
	entry, ok := reconcilableTypes[resourceType]
	if !ok {
		return tools.InvalidArgumentResult(fmt.Sprintf(
			"resource_type must be one of kustomization, gitrepository, helmrelease; got %q", resourceType)), nil
	}

	name, err := tools.RequiredStringArg(request, "name")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", sc.Config().DefaultNamespace)

	obj, err := sc.K8sClient().GetResource(ctx, kubeContext, entry.desc, namespace, name)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get %s %q", resourceType, name), err), nil
	}

	var rb report.Builder
	rb.Headingf(1, "Debug %s %s/%s", entry.kind, namespace, name)
	rb.Fieldf("Status", "%s", report.StatusCell(status.Evaluate(obj)))
	rb.Fieldf("Suspended", "%t", status.IsSuspended(obj))
	if source := sourceSummary(obj, resourceType); source != "" {
		rb.Fieldf("Source", "%s", source)
	}
	rb.Blank()

	rb.Headingf(2, "Conditions")
	writeDebugConditionTable(&rb, obj)

	if resourceType == "kustomization" {
		writeDependencyTable(ctx, &rb, sc, kubeContext, obj, namespace)
	}

	writeRecommendations(&rb, obj)

	return mcp.NewToolResultText(rb.String()), nil
}

// sourceSummary renders the source a Flux resource pulls from.
func sourceSummary(obj *unstructured.Unstructured, resourceType string) string {
	switch resourceType {
	case "kustomization":
		kind, _, _ := unstructured.NestedString(obj.Object, "spec", "sourceRef", "kind")
		name, _, _ := unstructured.NestedString(obj.Object, "spec", "sourceRef", "name")
		if kind == "" && name == "" {
			return ""
		}
		return kind + "/" + name
	case "gitrepository":
		url, _, _ := unstructured.NestedString(obj.Object, "spec", "url")
		return url
	case "helmrelease":
		kind, _, _ := unstructured.NestedString(obj.Object, "spec", "chart", "spec", "sourceRef", "kind")
		name, _, _ := unstructured.NestedString(obj.Object, "spec", "chart", "spec", "sourceRef", "name")
		if kind == "" && name == "" {
			return ""
		}
		return kind + "/" + name
	}
	return ""
}

// writeDebugConditionTable appends the condition table with timestamps
// trimmed to second precision.
func writeDebugConditionTable(rb *report.Builder, obj *unstructured.Unstructured) {
	raw, found, err := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if err != nil || !found || len(raw) == 0 {
		rb.Raw(report.EmptySentence("conditions"))
		return
	}

	table := report.NewTable("Type", "Status", "Reason", "Message", "Last Transition")
	for _, item := range raw {
		condMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		condType, _ := condMap["type"].(string)
		condStatus, _ := condMap["status"].(string)
		reason, _ := condMap["reason"].(string)
		message, _ := condMap["message"].(string)
		lastTransition, _ := condMap["lastTransitionTime"].(string)
		table.AddRow(
			condType,
			condStatus,
			reason,
			report.Truncate(message, report.MessageWidth),
			trimToSeconds(lastTransition),
		)
	}

	if table.Len() == 0 {
		rb.Raw(report.EmptySentence("conditions"))
		return
	}
	rb.Table(table)
}

// trimToSeconds drops sub-second precision from an RFC3339 timestamp.
// Unparseable values pass through untouched.
func trimToSeconds(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// writeDependencyTable appends the readiness of every dependsOn entry of a
// Kustomization. Dependencies that cannot be fetched show as unknown rather
// than failing the whole report.
func writeDependencyTable(ctx context.Context, rb *report.Builder, sc *server.ServerContext, kubeContext string, obj *unstructured.Unstructured, namespace string) {
	deps, found, err := unstructured.NestedSlice(obj.Object, "spec", "dependsOn")
	if err != nil || !found || len(deps) == 0 {
		return
	}

	table := report.NewTable("Dependency", "Status")
	for _, dep := range deps {
		depMap, ok := dep.(map[string]interface{})
		if !ok {
			continue
		}
		depName, _ := depMap["name"].(string)
		depNamespace, _ := depMap["namespace"].(string)
		if depNamespace == "" {
			depNamespace = namespace
		}

		cell := report.IconUnknown + " not found"
		depObj, err := sc.K8sClient().GetResource(ctx, kubeContext, k8s.Kustomizations, depNamespace, depName)
		if err == nil {
			cell = report.StatusCell(status.Evaluate(depObj))
		}
		table.AddRow(depNamespace+"/"+depName, cell)
	}

	if table.Len() == 0 {
		return
	}
	rb.Blank()
	rb.Headingf(2, "Dependencies")
	rb.Table(table)
}

// writeRecommendations appends remediation hints when the Ready condition
// reports a failure.
func writeRecommendations(rb *report.Builder, obj *unstructured.Unstructured) {
	cond := status.FindCondition(obj, "Ready")
	if cond == nil || cond.Status != "False" {
		return
	}

	var hints []string
	for _, rule := range recommendations {
		if strings.Contains(cond.Reason, rule.substring) {
			hints = append(hints, rule.hint)
		}
	}
	if len(hints) == 0 {
		return
	}

	rb.Blank()
	rb.Headingf(2, "Recommendations")
	for _, hint := range hints {
		rb.Linef("- %s", hint)
	}
}

// handleGetEvents renders namespace events, newest first.
func handleGetEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	limit, err := tools.IntArg(request, "limit", k8s.DefaultEventLimit)
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", sc.Config().DefaultNamespace)

	events, err := sc.K8sClient().ListEvents(ctx, kubeContext, namespace, k8s.EventOptions{
		InvolvedObjectName: tools.StringArg(request, "resource_name", ""),
		EventType:          tools.StringArg(request, "event_type", ""),
		Limit:              limit,
	})
	if err != nil {
		return tools.ErrorResult("list events", err), nil
	}

	if len(events) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("events")), nil
	}

	table := report.NewTable("Type", "Reason", "Object", "Age", "Message")
	for i := range events {
		event := &events[i]
		table.AddRow(
			eventTypeCell(event.Type),
			event.Reason,
			event.InvolvedObject.Kind+"/"+event.InvolvedObject.Name,
			report.FormatAge(eventTime(event)),
			report.Truncate(event.Message, report.ConditionMessageWidth),
		)
	}

	var rb report.Builder
	rb.Headingf(1, "Events in %s", namespace)
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// eventTime prefers the last-seen timestamp; events reported through the
// events.k8s.io path may only carry a creation timestamp.
func eventTime(event *corev1.Event) time.Time {
	if !event.LastTimestamp.IsZero() {
		return event.LastTimestamp.Time
	}
	return event.CreationTimestamp.Time
}

// eventTypeCell renders an event type with its icon.
func eventTypeCell(eventType string) string {
	if eventType == corev1.EventTypeWarning {
		return report.IconWarning + " " + eventType
	}
	return report.IconInfo + " " + eventType
}

// handleGetPodLogs renders the log tail of one pod container.
func handleGetPodLogs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	podName, err := tools.RequiredStringArg(request, "pod_name")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}
	tailLines, err := tools.IntArg(request, "tail_lines", k8s.DefaultLogTailLines)
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", sc.Config().DefaultNamespace)
	container := tools.StringArg(request, "container", "")

	logs, err := sc.K8sClient().GetPodLogs(ctx, kubeContext, namespace, podName, container, int64(tailLines))
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get logs for pod %q", podName), err), nil
	}

	var rb report.Builder
	rb.Headingf(1, "Logs %s/%s", namespace, podName)
	if container != "" {
		rb.Fieldf("Container", "%s", container)
	}
	rb.Fieldf("Tail Lines", "%d", tailLines)
	rb.Blank()
	if logs == "" {
		rb.Raw(report.EmptySentence("log output"))
	} else {
		rb.Raw(fencedBlock("", logs))
	}
	return mcp.NewToolResultText(rb.String()), nil
}

// handleGetResourceYAML renders one object as fenced YAML.
func handleGetResourceYAML(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	resourceType, err := tools.RequiredStringArg(request, "resource_type")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}
	desc, ok := yamlTypes[resourceType]
	if !ok {
		return tools.InvalidArgumentResult(fmt.Sprintf(
			"resource_type must be one of %s; got %q", strings.Join(yamlTypeNames(), ", "), resourceType)), nil
	}

	name, err := tools.RequiredStringArg(request, "name")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := ""
	if desc.Namespaced {
		namespace = tools.StringArg(request, "namespace", sc.Config().DefaultNamespace)
	}

	obj, err := sc.K8sClient().GetResource(ctx, kubeContext, desc, namespace, name)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get %s %q", resourceType, name), err), nil
	}

	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("render %s %q", resourceType, name), err), nil
	}

	return mcp.NewToolResultText(fencedBlock("yaml", string(data))), nil
}

// yamlTypeNames returns the accepted get_resource_yaml types in a stable
// order for error messages.
func yamlTypeNames() []string {
	names := make([]string, 0, len(yamlTypes))
	for name := range yamlTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fencedBlock wraps content in a markdown code fence.
func fencedBlock(language, content string) string {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return "```" + language + "\n" + content + "```\n"
}
