package apps

import (
	"context"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
	"github.com/mesosphere/mcp-gitops/internal/report"
	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/status"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// statusFilter is the parsed value of the status_filter parameter.
type statusFilter string

const (
	filterAll       statusFilter = "all"
	filterReady     statusFilter = "ready"
	filterFailed    statusFilter = "failed"
	filterSuspended statusFilter = "suspended"
)

// parseStatusFilter validates the status_filter argument.
func parseStatusFilter(request mcp.CallToolRequest) (statusFilter, error) {
	raw := tools.StringArg(request, "status_filter", string(filterAll))
	switch statusFilter(raw) {
	case filterAll, filterReady, filterFailed, filterSuspended:
		return statusFilter(raw), nil
	default:
		return "", fmt.Errorf("status_filter must be one of all, ready, failed, suspended; got %q", raw)
	}
}

// matches reports whether a classification passes the filter.
func (f statusFilter) matches(s status.Status) bool {
	switch f {
	case filterReady:
		return s == status.StatusReady
	case filterFailed:
		return s == status.StatusFailed
	case filterSuspended:
		return s == status.StatusSuspended
	default:
		return true
	}
}

// handleListApps merges namespaced Apps and cluster-scoped ClusterApps into
// one table. The two kinds are served by the same operator but installed
// separately, so each lookup degrades on its own; one missing CRD must not
// hide the other kind's results.
func handleListApps(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	filter, err := parseStatusFilter(request)
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", "")

	kinds := []struct {
		kind      string
		desc      k8s.ResourceDescriptor
		namespace string
	}{
		{"App", k8s.Apps, namespace},
		{"ClusterApp", k8s.ClusterApps, ""},
	}

	table := report.NewTable("Kind", "Name", "Namespace", "Status", "Version", "Message")
	var counts status.Counts
	var notes []string

	for _, entry := range kinds {
		objs, err := sc.K8sClient().ListResources(ctx, kubeContext, entry.desc, entry.namespace, k8s.ListOptions{})
		if err != nil {
			if tools.IsDegradable(err) {
				notes = append(notes, report.IconInfo+" "+tools.DegradedLine(entry.kind+"s", err))
				continue
			}
			return tools.ErrorResult("list apps", err), nil
		}

		kindCounts := status.Count(objs)
		counts.Ready += kindCounts.Ready
		counts.Failed += kindCounts.Failed
		counts.Suspended += kindCounts.Suspended

		for i := range objs {
			obj := &objs[i]
			st := status.Evaluate(obj)
			if !filter.matches(st) {
				continue
			}

			table.AddRow(
				entry.kind,
				obj.GetName(),
				obj.GetNamespace(),
				report.StatusCell(st),
				appVersion(obj),
				report.Truncate(status.Message(obj), report.MessageWidth),
			)
		}
	}

	if table.Len() == 0 && len(notes) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("apps")), nil
	}

	var rb report.Builder
	rb.Headingf(1, "Applications")
	if table.Len() > 0 {
		rb.Table(table)
	}
	for _, note := range notes {
		rb.Linef("%s", note)
	}
	if counts.Total() > 0 {
		rb.Fieldf("Summary", "%d ready, %d failed, %d suspended (%d total)",
			counts.Ready, counts.Failed, counts.Suspended, counts.Total())
	}
	return mcp.NewToolResultText(rb.String()), nil
}

// handleGetApp renders the detail view of one App or ClusterApp.
func handleGetApp(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	name, err := tools.RequiredStringArg(request, "name")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	clusterScoped := tools.BoolArg(request, "cluster_scoped", false)

	desc := k8s.Apps
	kind := "App"
	namespace := tools.StringArg(request, "namespace", sc.Config().DefaultNamespace)
	if clusterScoped {
		desc = k8s.ClusterApps
		kind = "ClusterApp"
		namespace = ""
	}

	obj, err := sc.K8sClient().GetResource(ctx, kubeContext, desc, namespace, name)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get app %q", name), err), nil
	}

	var rb report.Builder
	if clusterScoped {
		rb.Headingf(1, "ClusterApp %s", name)
	} else {
		rb.Headingf(1, "App %s/%s", namespace, name)
	}
	rb.Fieldf("Kind", "%s", kind)
	rb.Fieldf("Status", "%s", report.StatusCell(status.Evaluate(obj)))
	rb.Fieldf("Version", "%s", appVersion(obj))
	rb.Fieldf("Chart", "%s", chartReference(obj))
	rb.Blank()

	rb.Headingf(2, "Conditions")
	writeConditionTable(&rb, obj)

	writeClusterStatuses(&rb, obj)

	return mcp.NewToolResultText(rb.String()), nil
}

// appVersion returns the application version declared in the spec.
func appVersion(obj *unstructured.Unstructured) string {
	version, _, _ := unstructured.NestedString(obj.Object, "spec", "version")
	if version == "" {
		return "-"
	}
	return version
}

// chartReference renders the chart the app deploys. Apps reference a chart
// directly via spec.chartRef or indirectly via spec.appRef.
func chartReference(obj *unstructured.Unstructured) string {
	if name, _, _ := unstructured.NestedString(obj.Object, "spec", "chartRef", "name"); name != "" {
		if version, _, _ := unstructured.NestedString(obj.Object, "spec", "chartRef", "version"); version != "" {
			return name + "@" + version
		}
		return name
	}
	if name, _, _ := unstructured.NestedString(obj.Object, "spec", "appRef", "name"); name != "" {
		return name
	}
	return "-"
}

// writeClusterStatuses appends the per-cluster deployment section when the
// app reports status.clusterStatuses. Apps deployed to a single cluster do
// not carry the map, so the section is omitted entirely in that case.
func writeClusterStatuses(rb *report.Builder, obj *unstructured.Unstructured) {
	clusterStatuses, found, err := unstructured.NestedMap(obj.Object, "status", "clusterStatuses")
	if err != nil || !found || len(clusterStatuses) == 0 {
		return
	}

	names := make([]string, 0, len(clusterStatuses))
	for name := range clusterStatuses {
		names = append(names, name)
	}
	sort.Strings(names)

	table := report.NewTable("Cluster", "Status")
	statusCounts := map[string]int{}
	for _, name := range names {
		st := clusterDeploymentStatus(clusterStatuses[name])
		statusCounts[st]++
		table.AddRow(name, st)
	}

	rb.Blank()
	rb.Headingf(2, "Cluster Deployments")
	rb.Table(table)

	statuses := make([]string, 0, len(statusCounts))
	for st := range statusCounts {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		rb.Fieldf(st, "%d", statusCounts[st])
	}
}

// clusterDeploymentStatus extracts the status string of one entry in the
// clusterStatuses map.
func clusterDeploymentStatus(value interface{}) string {
	entry, ok := value.(map[string]interface{})
	if !ok {
		return "Unknown"
	}
	if st, ok := entry["status"].(string); ok && st != "" {
		return st
	}
	if phase, ok := entry["phase"].(string); ok && phase != "" {
		return phase
	}
	return "Unknown"
}

// writeConditionTable appends the full condition table of a resource.
func writeConditionTable(rb *report.Builder, obj *unstructured.Unstructured) {
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
			report.Truncate(message, report.ConditionMessageWidth),
			lastTransition,
		)
	}

	if table.Len() == 0 {
		rb.Raw(report.EmptySentence("conditions"))
		return
	}
	rb.Table(table)
}
