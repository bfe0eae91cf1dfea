package k8s

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ListEvents lists events in a namespace, sorted newest first.
func (c *clusterClient) ListEvents(ctx context.Context, kubeContext, namespace string, opts EventOptions) ([]corev1.Event, error) {
	c.logOperation("list-events", kubeContext, namespace, "events", opts.InvolvedObjectName)

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	var selectors []string
	if opts.InvolvedObjectName != "" {
		selectors = append(selectors, "involvedObject.name="+opts.InvolvedObjectName)
	}
	if opts.EventType != "" {
		selectors = append(selectors, "type="+opts.EventType)
	}

	listOpts := metav1.ListOptions{
		FieldSelector: strings.Join(selectors, ","),
	}

	eventList, err := clientset.CoreV1().Events(namespace).List(ctx, listOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events in namespace %q: %w", namespace, err)
	}

	return sortAndLimitEvents(eventList.Items, opts.Limit), nil
}

// sortAndLimitEvents orders events newest first and truncates to limit.
// A non-positive limit falls back to DefaultEventLimit.
func sortAndLimitEvents(events []corev1.Event, limit int) []corev1.Event {
	sort.Slice(events, func(i, j int) bool {
		return eventTime(events[i]).After(eventTime(events[j]))
	})

	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if len(events) > limit {
		events = events[:limit]
	}

	return events
}

// eventTime picks the timestamp an event is sorted by. LastTimestamp can be
// zero for events reported through the events.k8s.io path, so fall back to
// the creation timestamp.
func eventTime(event corev1.Event) time.Time {
	if !event.LastTimestamp.IsZero() {
		return event.LastTimestamp.Time
	}
	return event.CreationTimestamp.Time
}
