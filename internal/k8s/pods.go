package k8s

import (
	"context"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
)

// GetPodLogs returns the tail of a pod container's log as a string.
// An empty containerName selects the pod's single or default container.
func (c *clusterClient) GetPodLogs(ctx context.Context, kubeContext, namespace, podName, containerName string, tailLines int64) (string, error) {
	c.logOperation("get-logs", kubeContext, namespace, "pods", podName)

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return "", err
	}

	if tailLines <= 0 {
		tailLines = DefaultLogTailLines
	}

	logOpts := &corev1.PodLogOptions{
		Container: containerName,
		TailLines: &tailLines,
	}

	req := clientset.CoreV1().Pods(namespace).GetLogs(podName, logOpts)
	stream, err := req.Stream(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get logs for pod %q: %w", podName, err)
	}
	defer func() { _ = stream.Close() }()

	data, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("failed to read logs for pod %q: %w", podName, err)
	}

	return string(data), nil
}
