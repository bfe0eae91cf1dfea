package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty host",
			input:    "",
			expected: "<empty>",
		},
		{
			name:     "plain IPv4",
			input:    "192.168.1.100",
			expected: "<redacted-ip>",
		},
		{
			name:     "IPv4 URL with port",
			input:    "https://192.168.1.100:6443",
			expected: "https://<redacted-ip>:6443",
		},
		{
			name:     "hostname URL untouched",
			input:    "https://api.cluster.example.com:6443",
			expected: "https://api.cluster.example.com:6443",
		},
		{
			name:     "plain hostname untouched",
			input:    "api.cluster.example.com",
			expected: "api.cluster.example.com",
		},
		{
			name:     "compressed IPv6",
			input:    "2001:db8::1",
			expected: "<redacted-ip>",
		},
		{
			name:     "bracketed IPv6 URL",
			input:    "https://[2001:db8::1]:6443",
			expected: "https://<redacted-ip>:6443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeHost(tt.input))
		})
	}
}

func TestSlogAttributes(t *testing.T) {
	tests := []struct {
		name      string
		attr      slog.Attr
		wantKey   string
		wantValue string
	}{
		{"Operation", Operation("resource.list"), KeyOperation, "resource.list"},
		{"Namespace", Namespace("flux-system"), KeyNamespace, "flux-system"},
		{"ResourceType", ResourceType("kustomizations"), KeyResourceType, "kustomizations"},
		{"ResourceName", ResourceName("apps"), KeyResourceName, "apps"},
		{"Kind", Kind("Kustomization"), KeyKind, "Kustomization"},
		{"Engine", Engine("gatekeeper"), KeyEngine, "gatekeeper"},
		{"KubeContext", KubeContext("management"), KeyContext, "management"},
		{"Status", Status(StatusSuccess), KeyStatus, "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, tt.attr.Key)
			assert.Equal(t, tt.wantValue, tt.attr.Value.String())
		})
	}
}

func TestErrAttributes(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "", attr.Value.String())
	})

	t.Run("plain error", func(t *testing.T) {
		attr := Err(errors.New("boom"))
		assert.Equal(t, "boom", attr.Value.String())
	})

	t.Run("sanitized error redacts IPs", func(t *testing.T) {
		err := errors.New("dial tcp 10.0.0.1:6443: connection refused")
		attr := SanitizedErr(err)
		assert.NotContains(t, attr.Value.String(), "10.0.0.1")
		assert.Contains(t, attr.Value.String(), "<redacted-ip>")
	})

	t.Run("sanitized nil error", func(t *testing.T) {
		attr := SanitizedErr(nil)
		assert.Equal(t, "", attr.Value.String())
	})
}

func TestHostAttribute(t *testing.T) {
	attr := Host("https://10.1.2.3:6443")
	assert.Equal(t, KeyHost, attr.Key)
	assert.Equal(t, "https://<redacted-ip>:6443", attr.Value.String())
}

func TestWithOperationLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithOperation(logger, "events.list").Info("listing")

	output := buf.String()
	assert.Contains(t, output, KeyOperation)
	assert.Contains(t, output, "events.list")
}

func TestWithToolLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithTool(logger, "list_kustomizations").Info("invoked")

	output := buf.String()
	assert.Contains(t, output, KeyTool)
	assert.Contains(t, output, "list_kustomizations")
}
