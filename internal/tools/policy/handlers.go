package policy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
	"github.com/mesosphere/mcp-gitops/internal/report"
	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/status"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// maxConcurrentConstraintLists bounds the fan-out over generated constraint
// kinds. Each kind is a separate API resource, so a cluster with many
// templates would otherwise issue one burst of list calls per report.
const maxConcurrentConstraintLists = 4

// violation is one flattened policy violation, regardless of engine.
type violation struct {
	Engine    string
	Policy    string
	Kind      string
	Namespace string
	Name      string
	Message   string
}

// handleCheckPolicyViolations renders the combined violation report. Each
// engine degrades independently when its CRDs are not installed.
func handleCheckPolicyViolations(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	engine := tools.StringArg(request, "engine", "both")
	switch engine {
	case "both", "gatekeeper", "kyverno":
	default:
		return tools.InvalidArgumentResult(fmt.Sprintf("engine must be one of both, gatekeeper, kyverno; got %q", engine)), nil
	}

	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", "")

	var violations []violation
	var notes []string

	if engine != "kyverno" {
		rows, err := gatekeeperViolations(ctx, sc, kubeContext, namespace)
		if err != nil {
			if !tools.IsDegradable(err) {
				return tools.ErrorResult("check policy violations", err), nil
			}
			notes = append(notes, report.IconInfo+" "+tools.DegradedLine("Gatekeeper", err))
		}
		violations = append(violations, rows...)
	}

	if engine != "gatekeeper" {
		rows, kyvernoNotes, err := kyvernoViolations(ctx, sc, kubeContext, namespace)
		if err != nil {
			return tools.ErrorResult("check policy violations", err), nil
		}
		notes = append(notes, kyvernoNotes...)
		violations = append(violations, rows...)
	}

	var rb report.Builder
	rb.Headingf(1, "Policy Violations")

	if len(violations) > 0 {
		table := report.NewTable("Engine", "Policy", "Kind", "Namespace", "Name", "Message")
		for _, v := range violations {
			table.AddRow(v.Engine, v.Policy, v.Kind, v.Namespace, v.Name,
				report.Truncate(v.Message, report.MessageWidth))
		}
		rb.Table(table)
		rb.Fieldf("Total Violations", "%s %d", report.IconWarning, len(violations))
	} else {
		rb.Linef("%s No policy violations found.", report.IconReady)
	}
	for _, note := range notes {
		rb.Linef("%s", note)
	}

	return mcp.NewToolResultText(rb.String()), nil
}

// gatekeeperViolations flattens the audit violations of every Gatekeeper
// constraint. Constraint kinds are generated from templates, so the
// template list drives which resources exist to query.
func gatekeeperViolations(ctx context.Context, sc *server.ServerContext, kubeContext, namespace string) ([]violation, error) {
	templates, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.ConstraintTemplates, "", k8s.ListOptions{})
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var violations []violation

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentConstraintLists)
	for i := range templates {
		kind := constraintKind(&templates[i])
		g.Go(func() error {
			constraints, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.ConstraintDescriptor(kind), "", k8s.ListOptions{})
			if err != nil {
				// A template whose constraint kind is not served yet
				// just contributes nothing.
				if tools.IsDegradable(err) {
					return nil
				}
				return err
			}
			rows := flattenConstraintViolations(kind, constraints, namespace)
			mu.Lock()
			violations = append(violations, rows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortViolations(violations)
	return violations, nil
}

// constraintKind reads the generated kind from the template CRD spec,
// falling back to the name transform for templates that omit it.
func constraintKind(template *unstructured.Unstructured) string {
	kind, _, _ := unstructured.NestedString(template.Object, "spec", "crd", "spec", "names", "kind")
	if kind != "" {
		return kind
	}
	return k8s.ConstraintKindFromTemplateName(template.GetName())
}

// flattenConstraintViolations turns status.violations entries into rows,
// optionally narrowed to one namespace.
func flattenConstraintViolations(kind string, constraints []unstructured.Unstructured, namespace string) []violation {
	var violations []violation
	for i := range constraints {
		raw, found, err := unstructured.NestedSlice(constraints[i].Object, "status", "violations")
		if err != nil || !found {
			continue
		}
		for _, item := range raw {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			entryNamespace, _ := entry["namespace"].(string)
			if namespace != "" && entryNamespace != namespace {
				continue
			}
			entryKind, _ := entry["kind"].(string)
			entryName, _ := entry["name"].(string)
			message, _ := entry["message"].(string)
			violations = append(violations, violation{
				Engine:    "Gatekeeper",
				Policy:    kind + "/" + constraints[i].GetName(),
				Kind:      entryKind,
				Namespace: entryNamespace,
				Name:      entryName,
				Message:   message,
			})
		}
	}
	return violations
}

// kyvernoViolations flattens failed results from cluster-scoped and
// namespaced policy reports. The two report kinds degrade independently:
// a missing or forbidden kind becomes a note while the other still renders.
func kyvernoViolations(ctx context.Context, sc *server.ServerContext, kubeContext, namespace string) ([]violation, []string, error) {
	kinds := []struct {
		label     string
		desc      k8s.ResourceDescriptor
		namespace string
	}{
		{"Kyverno ClusterPolicyReports", k8s.ClusterPolicyReports, ""},
		{"Kyverno PolicyReports", k8s.PolicyReports, namespace},
	}

	var violations []violation
	var notes []string
	for _, kind := range kinds {
		reports, err := sc.K8sClient().ListResources(ctx, kubeContext, kind.desc, kind.namespace, k8s.ListOptions{})
		if err != nil {
			if !tools.IsDegradable(err) {
				return nil, nil, err
			}
			notes = append(notes, report.IconInfo+" "+tools.DegradedLine(kind.label, err))
			continue
		}
		violations = append(violations, flattenReportResults(reports, namespace)...)
	}

	sortViolations(violations)
	return violations, notes, nil
}

// flattenReportResults extracts the failing results of policy reports. Each
// failing result names the resources it hit; results without resources
// still produce one row so the failure stays visible.
func flattenReportResults(reports []unstructured.Unstructured, namespace string) []violation {
	var violations []violation
	for i := range reports {
		raw, found, err := unstructured.NestedSlice(reports[i].Object, "results")
		if err != nil || !found {
			continue
		}
		reportNamespace := reports[i].GetNamespace()
		for _, item := range raw {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if result, _ := entry["result"].(string); result != "fail" {
				continue
			}
			policy, _ := entry["policy"].(string)
			message, _ := entry["message"].(string)

			resources, _ := entry["resources"].([]interface{})
			if len(resources) == 0 {
				if namespace == "" || reportNamespace == namespace {
					violations = append(violations, violation{
						Engine:    "Kyverno",
						Policy:    policy,
						Kind:      "-",
						Namespace: reportNamespace,
						Name:      "-",
						Message:   message,
					})
				}
				continue
			}

			for _, res := range resources {
				resMap, ok := res.(map[string]interface{})
				if !ok {
					continue
				}
				resNamespace, _ := resMap["namespace"].(string)
				if resNamespace == "" {
					resNamespace = reportNamespace
				}
				if namespace != "" && resNamespace != namespace {
					continue
				}
				resKind, _ := resMap["kind"].(string)
				resName, _ := resMap["name"].(string)
				violations = append(violations, violation{
					Engine:    "Kyverno",
					Policy:    policy,
					Kind:      resKind,
					Namespace: resNamespace,
					Name:      resName,
					Message:   message,
				})
			}
		}
	}
	return violations
}

// sortViolations fixes the row order: fan-out and map iteration would
// otherwise make reports non-deterministic.
func sortViolations(violations []violation) {
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Policy != b.Policy {
			return a.Policy < b.Policy
		}
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
}

// handleListConstraints renders the Gatekeeper constraint inventory.
func handleListConstraints(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kubeContext := tools.KubeContext(request, sc)

	templates, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.ConstraintTemplates, "", k8s.ListOptions{})
	if err != nil {
		return tools.ErrorResult("list constraints", err), nil
	}

	table := report.NewTable("Kind", "Name", "Enforcement", "Violations")
	for i := range templates {
		kind := constraintKind(&templates[i])
		constraints, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.ConstraintDescriptor(kind), "", k8s.ListOptions{})
		if err != nil {
			if tools.IsDegradable(err) {
				continue
			}
			return tools.ErrorResult("list constraints", err), nil
		}

		for j := range constraints {
			obj := &constraints[j]
			enforcement, _, _ := unstructured.NestedString(obj.Object, "spec", "enforcementAction")
			if enforcement == "" {
				enforcement = "deny"
			}
			total, _, _ := unstructured.NestedInt64(obj.Object, "status", "totalViolations")
			table.AddRow(kind, obj.GetName(), enforcement, violationCell(total))
		}
	}

	if table.Len() == 0 {
		return mcp.NewToolResultText(report.EmptySentence("constraints")), nil
	}

	var rb report.Builder
	rb.Headingf(1, "Gatekeeper Constraints")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// handleListKyvernoPolicies renders the Kyverno ClusterPolicy inventory.
func handleListKyvernoPolicies(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kubeContext := tools.KubeContext(request, sc)

	policies, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.KyvernoClusterPolicies, "", k8s.ListOptions{})
	if err != nil {
		return tools.ErrorResult("list kyverno policies", err), nil
	}

	if len(policies) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("kyverno policies")), nil
	}

	table := report.NewTable("Name", "Ready", "Background", "Validation Action")
	for i := range policies {
		obj := &policies[i]
		background, _, _ := unstructured.NestedBool(obj.Object, "spec", "background")
		// Kyverno defaults validationFailureAction to Audit when unset.
		action, _, _ := unstructured.NestedString(obj.Object, "spec", "validationFailureAction")
		if action == "" {
			action = "Audit"
		}
		table.AddRow(
			obj.GetName(),
			readyCell(status.IsReady(obj)),
			fmt.Sprintf("%t", background),
			action,
		)
	}

	var rb report.Builder
	rb.Headingf(1, "Kyverno ClusterPolicies")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// violationCell renders a violation count with its icon.
func violationCell(total int64) string {
	if total > 0 {
		return fmt.Sprintf("%s %d", report.IconWarning, total)
	}
	return fmt.Sprintf("%s 0", report.IconReady)
}

func readyCell(ready bool) string {
	if ready {
		return report.IconReady + " true"
	}
	return report.IconFailed + " false"
}
