package gitops

import (
	"context"
	"fmt"

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

// handleGetGitOpsStatus renders readiness tallies for every Flux resource
// family. Families whose CRD is not installed degrade to a note instead of
// failing the whole report.
func handleGetGitOpsStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kubeContext := tools.KubeContext(request, sc)

	families := []struct {
		label string
		desc  k8s.ResourceDescriptor
	}{
		{"Kustomizations", k8s.Kustomizations},
		{"GitRepositories", k8s.GitRepositories},
		{"HelmReleases", k8s.HelmReleases},
	}

	var rb report.Builder
	rb.Headingf(1, "GitOps Status")

	table := report.NewTable("Family", "Ready", "Failed", "Suspended", "Total")
	var notes []string

	for _, family := range families {
		objs, err := sc.K8sClient().ListResources(ctx, kubeContext, family.desc, "", k8s.ListOptions{})
		if err != nil {
			if tools.IsDegradable(err) {
				notes = append(notes, report.IconInfo+" "+tools.DegradedLine(family.label, err))
				continue
			}
			return tools.ErrorResult("get gitops status", err), nil
		}

		counts := status.Count(objs)
		table.AddRow(
			family.label,
			fmt.Sprintf("%d", counts.Ready),
			fmt.Sprintf("%d", counts.Failed),
			fmt.Sprintf("%d", counts.Suspended),
			fmt.Sprintf("%d", counts.Total()),
		)
	}

	if table.Len() > 0 {
		rb.Table(table)
	}
	for _, note := range notes {
		rb.Linef("%s", note)
	}
	if table.Len() == 0 && len(notes) == 0 {
		rb.Raw(report.EmptySentence("GitOps resources"))
	}

	return mcp.NewToolResultText(rb.String()), nil
}

// handleListKustomizations renders the Kustomization summary table.
func handleListKustomizations(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	filter, err := parseStatusFilter(request)
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", "")

	objs, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.Kustomizations, namespace, k8s.ListOptions{})
	if err != nil {
		return tools.ErrorResult("list kustomizations", err), nil
	}

	table := report.NewTable("Name", "Namespace", "Status", "Message", "Revision")
	for i := range objs {
		obj := &objs[i]
		st := status.Evaluate(obj)
		if !filter.matches(st) {
			continue
		}

		revision, _, _ := unstructured.NestedString(obj.Object, "status", "lastAppliedRevision")
		table.AddRow(
			obj.GetName(),
			obj.GetNamespace(),
			report.StatusCell(st),
			report.Truncate(status.Message(obj), report.MessageWidth),
			report.ShortRevision(revision),
		)
	}

	if table.Len() == 0 {
		return mcp.NewToolResultText(report.EmptySentence("kustomizations")), nil
	}

	var rb report.Builder
	rb.Headingf(1, "Kustomizations")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// handleGetKustomization renders the detail view of one Kustomization.
func handleGetKustomization(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	name, err := tools.RequiredStringArg(request, "name")
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", sc.Config().DefaultNamespace)

	obj, err := sc.K8sClient().GetResource(ctx, kubeContext, k8s.Kustomizations, namespace, name)
	if err != nil {
		return tools.ErrorResult(fmt.Sprintf("get kustomization %q", name), err), nil
	}

	path, _, _ := unstructured.NestedString(obj.Object, "spec", "path")
	interval, _, _ := unstructured.NestedString(obj.Object, "spec", "interval")
	prune, _, _ := unstructured.NestedBool(obj.Object, "spec", "prune")
	sourceKind, _, _ := unstructured.NestedString(obj.Object, "spec", "sourceRef", "kind")
	sourceName, _, _ := unstructured.NestedString(obj.Object, "spec", "sourceRef", "name")
	revision, _, _ := unstructured.NestedString(obj.Object, "status", "lastAppliedRevision")

	var rb report.Builder
	rb.Headingf(1, "Kustomization %s/%s", namespace, name)
	rb.Fieldf("Status", "%s", report.StatusCell(status.Evaluate(obj)))
	rb.Fieldf("Path", "%s", valueOrDash(path))
	rb.Fieldf("Interval", "%s", valueOrDash(interval))
	rb.Fieldf("Prune", "%t", prune)
	rb.Fieldf("Suspended", "%t", status.IsSuspended(obj))
	rb.Fieldf("Source", "%s/%s", valueOrDash(sourceKind), valueOrDash(sourceName))
	rb.Fieldf("Last Applied Revision", "%s", report.ShortRevision(revision))
	rb.Blank()

	rb.Headingf(2, "Conditions")
	writeConditionTable(&rb, obj)

	return mcp.NewToolResultText(rb.String()), nil
}

// handleListGitRepositories renders the GitRepository source table.
func handleListGitRepositories(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", "")

	objs, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.GitRepositories, namespace, k8s.ListOptions{})
	if err != nil {
		return tools.ErrorResult("list gitrepositories", err), nil
	}

	if len(objs) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("git repositories")), nil
	}

	table := report.NewTable("Name", "Namespace", "URL", "Ref", "Status", "Message")
	for i := range objs {
		obj := &objs[i]
		url, _, _ := unstructured.NestedString(obj.Object, "spec", "url")
		table.AddRow(
			obj.GetName(),
			obj.GetNamespace(),
			url,
			gitRef(obj),
			report.StatusCell(status.Evaluate(obj)),
			report.Truncate(status.Message(obj), report.MessageWidth),
		)
	}

	var rb report.Builder
	rb.Headingf(1, "GitRepositories")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// handleGetHelmReleases renders the HelmRelease table.
func handleGetHelmReleases(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	filter, err := parseStatusFilter(request)
	if err != nil {
		return tools.InvalidArgumentResult(err.Error()), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", "")

	objs, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.HelmReleases, namespace, k8s.ListOptions{})
	if err != nil {
		return tools.ErrorResult("list helmreleases", err), nil
	}

	table := report.NewTable("Name", "Namespace", "Chart", "Version", "Status", "Message")
	for i := range objs {
		obj := &objs[i]
		st := status.Evaluate(obj)
		if !filter.matches(st) {
			continue
		}

		chart, _, _ := unstructured.NestedString(obj.Object, "spec", "chart", "spec", "chart")
		version, _, _ := unstructured.NestedString(obj.Object, "spec", "chart", "spec", "version")
		table.AddRow(
			obj.GetName(),
			obj.GetNamespace(),
			chart,
			version,
			report.StatusCell(st),
			report.Truncate(status.Message(obj), report.MessageWidth),
		)
	}

	if table.Len() == 0 {
		return mcp.NewToolResultText(report.EmptySentence("helm releases")), nil
	}

	var rb report.Builder
	rb.Headingf(1, "HelmReleases")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// gitRef renders the tracked reference of a GitRepository. Flux accepts
// branch, tag, and semver refs; the first one present wins.
func gitRef(obj *unstructured.Unstructured) string {
	if branch, _, _ := unstructured.NestedString(obj.Object, "spec", "ref", "branch"); branch != "" {
		return branch
	}
	if tag, _, _ := unstructured.NestedString(obj.Object, "spec", "ref", "tag"); tag != "" {
		return tag
	}
	if semver, _, _ := unstructured.NestedString(obj.Object, "spec", "ref", "semver"); semver != "" {
		return semver
	}
	return "-"
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

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
