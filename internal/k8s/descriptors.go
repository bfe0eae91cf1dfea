package k8s

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceDescriptor identifies a resource kind the server knows how to read.
type ResourceDescriptor struct {
	Group      string
	Version    string
	Resource   string
	Namespaced bool
}

// GVR returns the schema.GroupVersionResource for the descriptor.
func (d ResourceDescriptor) GVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    d.Group,
		Version:  d.Version,
		Resource: d.Resource,
	}
}

// GroupVersion returns the group/version string, e.g. "source.toolkit.fluxcd.io/v1".
func (d ResourceDescriptor) GroupVersion() string {
	if d.Group == "" {
		return d.Version
	}
	return d.Group + "/" + d.Version
}

// Descriptors for the custom resource kinds this server reads. All of them
// are CRDs, so any list may fail with ErrAPIUnavailable when the owning
// operator is not installed.
var (
	// Flux GitOps resources.
	Kustomizations = ResourceDescriptor{
		Group: "kustomize.toolkit.fluxcd.io", Version: "v1", Resource: "kustomizations", Namespaced: true,
	}
	GitRepositories = ResourceDescriptor{
		Group: "source.toolkit.fluxcd.io", Version: "v1", Resource: "gitrepositories", Namespaced: true,
	}
	HelmReleases = ResourceDescriptor{
		Group: "helm.toolkit.fluxcd.io", Version: "v2", Resource: "helmreleases", Namespaced: true,
	}

	// Cluster API resources.
	Clusters = ResourceDescriptor{
		Group: "cluster.x-k8s.io", Version: "v1beta1", Resource: "clusters", Namespaced: true,
	}
	Machines = ResourceDescriptor{
		Group: "cluster.x-k8s.io", Version: "v1beta1", Resource: "machines", Namespaced: true,
	}
	MachineDeployments = ResourceDescriptor{
		Group: "cluster.x-k8s.io", Version: "v1beta1", Resource: "machinedeployments", Namespaced: true,
	}

	// Kommander application resources.
	Apps = ResourceDescriptor{
		Group: "apps.kommander.d2iq.io", Version: "v1alpha2", Resource: "apps", Namespaced: true,
	}
	ClusterApps = ResourceDescriptor{
		Group: "apps.kommander.d2iq.io", Version: "v1alpha2", Resource: "clusterapps", Namespaced: false,
	}

	// Policy engine resources.
	ConstraintTemplates = ResourceDescriptor{
		Group: "templates.gatekeeper.sh", Version: "v1", Resource: "constrainttemplates", Namespaced: false,
	}
	KyvernoClusterPolicies = ResourceDescriptor{
		Group: "kyverno.io", Version: "v1", Resource: "clusterpolicies", Namespaced: false,
	}
	ClusterPolicyReports = ResourceDescriptor{
		Group: "wgpolicyk8s.io", Version: "v1alpha2", Resource: "clusterpolicyreports", Namespaced: false,
	}
	PolicyReports = ResourceDescriptor{
		Group: "wgpolicyk8s.io", Version: "v1alpha2", Resource: "policyreports", Namespaced: true,
	}
)

// ClusterNameLabel is the CAPI label joining Machines and MachineDeployments
// to their owning Cluster.
const ClusterNameLabel = "cluster.x-k8s.io/cluster-name"

// titleCaser capitalizes hyphen-separated words; "k8s" becomes "K8s".
var titleCaser = cases.Title(language.English)

// ConstraintKindFromTemplateName derives the constraint kind a Gatekeeper
// ConstraintTemplate generates, e.g. "k8s-required-labels" -> "K8sRequiredLabels".
// Template names following Gatekeeper conventions are lowercase; templates
// that set an explicit kind in spec.crd.spec.names.kind should be read from
// there instead.
func ConstraintKindFromTemplateName(name string) string {
	parts := strings.Split(name, "-")
	for i, part := range parts {
		parts[i] = titleCaser.String(part)
	}
	return strings.Join(parts, "")
}

// ConstraintDescriptor returns the descriptor for instances of a generated
// Gatekeeper constraint kind. Gatekeeper serves every constraint kind under
// constraints.gatekeeper.sh/v1beta1 with the lowercased kind as resource name.
func ConstraintDescriptor(kind string) ResourceDescriptor {
	return ResourceDescriptor{
		Group:      "constraints.gatekeeper.sh",
		Version:    "v1beta1",
		Resource:   strings.ToLower(kind),
		Namespaced: false,
	}
}
