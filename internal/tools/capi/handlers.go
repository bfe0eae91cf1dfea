package capi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mesosphere/mcp-gitops/internal/k8s"
	"github.com/mesosphere/mcp-gitops/internal/report"
	"github.com/mesosphere/mcp-gitops/internal/server"
	"github.com/mesosphere/mcp-gitops/internal/tools"
)

// phaseCell renders a CAPI phase with its icon. Provisioned clusters and
// Running machines are healthy, Provisioning and Pending are in flight,
// everything else is a problem.
func phaseCell(phase string) string {
	switch phase {
	case "Provisioned", "Running":
		return report.IconReady + " " + phase
	case "Provisioning", "Pending":
		return report.IconProvisioning + " " + phase
	case "":
		return report.IconUnknown + " Unknown"
	default:
		return report.IconFailed + " " + phase
	}
}

// handleGetClusterStatus renders either a cluster overview table or the
// detail view of one cluster.
func handleGetClusterStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kubeContext := tools.KubeContext(request, sc)
	name := tools.StringArg(request, "name", "")

	clusters, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.Clusters, "", k8s.ListOptions{})
	if err != nil {
		return tools.ErrorResult("get cluster status", err), nil
	}

	if name != "" {
		for i := range clusters {
			if clusters[i].GetName() == name {
				return clusterDetail(ctx, sc, kubeContext, &clusters[i])
			}
		}
		return tools.ErrorResult(fmt.Sprintf("get cluster %q", name),
			&k8s.NotFoundError{Resource: "clusters", Name: name}), nil
	}

	if len(clusters) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("clusters")), nil
	}

	table := report.NewTable("Name", "Namespace", "Phase", "Infrastructure", "Control Plane")
	for i := range clusters {
		obj := &clusters[i]
		phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
		infraReady, _, _ := unstructured.NestedBool(obj.Object, "status", "infrastructureReady")
		cpReady, _, _ := unstructured.NestedBool(obj.Object, "status", "controlPlaneReady")
		table.AddRow(
			obj.GetName(),
			obj.GetNamespace(),
			phaseCell(phase),
			readyCell(infraReady),
			readyCell(cpReady),
		)
	}

	var rb report.Builder
	rb.Headingf(1, "Clusters")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

// clusterDetail renders one cluster with topology, endpoint, and workers.
func clusterDetail(ctx context.Context, sc *server.ServerContext, kubeContext string, obj *unstructured.Unstructured) (*mcp.CallToolResult, error) {
	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
	infraReady, _, _ := unstructured.NestedBool(obj.Object, "status", "infrastructureReady")
	cpReady, _, _ := unstructured.NestedBool(obj.Object, "status", "controlPlaneReady")
	topologyClass, _, _ := unstructured.NestedString(obj.Object, "spec", "topology", "class")
	topologyVersion, _, _ := unstructured.NestedString(obj.Object, "spec", "topology", "version")
	endpointHost, _, _ := unstructured.NestedString(obj.Object, "spec", "controlPlaneEndpoint", "host")
	endpointPort, _, _ := unstructured.NestedInt64(obj.Object, "spec", "controlPlaneEndpoint", "port")

	var rb report.Builder
	rb.Headingf(1, "Cluster %s/%s", obj.GetNamespace(), obj.GetName())
	rb.Fieldf("Phase", "%s", phaseCell(phase))
	rb.Fieldf("Infrastructure Ready", "%t", infraReady)
	rb.Fieldf("Control Plane Ready", "%t", cpReady)
	if topologyClass != "" {
		rb.Fieldf("Topology Class", "%s", topologyClass)
		rb.Fieldf("Topology Version", "%s", topologyVersion)
	}
	if endpointHost != "" {
		rb.Fieldf("Control Plane Endpoint", "%s:%d", endpointHost, endpointPort)
	}

	// Worker counts come from the MachineDeployments owned by this cluster.
	deployments, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.MachineDeployments, obj.GetNamespace(), k8s.ListOptions{
		LabelSelector: k8s.ClusterNameLabel + "=" + obj.GetName(),
	})
	if err != nil {
		if !tools.IsDegradable(err) {
			return tools.ErrorResult("list machinedeployments", err), nil
		}
		rb.Linef("%s %s", report.IconInfo, tools.DegradedLine("MachineDeployments", err))
	} else {
		var desired, ready int64
		for i := range deployments {
			d, _, _ := unstructured.NestedInt64(deployments[i].Object, "spec", "replicas")
			r, _, _ := unstructured.NestedInt64(deployments[i].Object, "status", "readyReplicas")
			desired += d
			ready += r
		}
		rb.Fieldf("Workers", "%d/%d ready (%d machine deployments)", ready, desired, len(deployments))
	}

	return mcp.NewToolResultText(rb.String()), nil
}

// handleListMachines renders the machine table, optionally narrowed to one
// cluster via the cluster-name label.
func handleListMachines(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	kubeContext := tools.KubeContext(request, sc)
	namespace := tools.StringArg(request, "namespace", "")
	clusterName := tools.StringArg(request, "cluster_name", "")

	opts := k8s.ListOptions{}
	if clusterName != "" {
		opts.LabelSelector = k8s.ClusterNameLabel + "=" + clusterName
	}

	machines, err := sc.K8sClient().ListResources(ctx, kubeContext, k8s.Machines, namespace, opts)
	if err != nil {
		return tools.ErrorResult("list machines", err), nil
	}

	if len(machines) == 0 {
		return mcp.NewToolResultText(report.EmptySentence("machines")), nil
	}

	table := report.NewTable("Name", "Cluster", "Phase", "Node", "Version", "Age")
	for i := range machines {
		obj := &machines[i]
		phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
		node, _, _ := unstructured.NestedString(obj.Object, "status", "nodeRef", "name")
		version, _, _ := unstructured.NestedString(obj.Object, "spec", "version")
		table.AddRow(
			obj.GetName(),
			obj.GetLabels()[k8s.ClusterNameLabel],
			phaseCell(phase),
			node,
			version,
			report.FormatAge(obj.GetCreationTimestamp().Time),
		)
	}

	var rb report.Builder
	rb.Headingf(1, "Machines")
	rb.Table(table)
	rb.Fieldf("Total", "%d", table.Len())
	return mcp.NewToolResultText(rb.String()), nil
}

func readyCell(ready bool) string {
	if ready {
		return report.IconReady + " true"
	}
	return report.IconFailed + " false"
}
