package k8s

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintKindFromTemplateName(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "required labels",
			template: "k8s-required-labels",
			want:     "K8sRequiredLabels",
		},
		{
			name:     "container limits",
			template: "k8s-container-limits",
			want:     "K8sContainerLimits",
		},
		{
			name:     "single word",
			template: "uniqueingresshost",
			want:     "Uniqueingresshost",
		},
		{
			name:     "empty",
			template: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstraintKindFromTemplateName(tt.template))
		})
	}
}

func TestConstraintDescriptor(t *testing.T) {
	desc := ConstraintDescriptor("K8sRequiredLabels")

	assert.Equal(t, "constraints.gatekeeper.sh", desc.Group)
	assert.Equal(t, "v1beta1", desc.Version)
	assert.Equal(t, "k8srequiredlabels", desc.Resource)
	assert.False(t, desc.Namespaced)
}

func TestResourceDescriptorGroupVersion(t *testing.T) {
	assert.Equal(t, "kustomize.toolkit.fluxcd.io/v1", Kustomizations.GroupVersion())
	assert.Equal(t, "v1", ResourceDescriptor{Version: "v1", Resource: "events"}.GroupVersion())
}

func TestResourceDescriptorGVR(t *testing.T) {
	gvr := HelmReleases.GVR()

	assert.Equal(t, "helm.toolkit.fluxcd.io", gvr.Group)
	assert.Equal(t, "v2", gvr.Version)
	assert.Equal(t, "helmreleases", gvr.Resource)
}
