// Package status classifies GitOps-managed resources by their readiness.
//
// Flux, Cluster API and Kommander resources all follow the Kubernetes
// condition convention: a status.conditions array plus an optional
// spec.suspend flag. Evaluation order matters and is fixed: suspension
// wins over readiness, readiness wins over failure.
package status

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Status is the classification of a resource.
type Status string

const (
	// StatusSuspended means spec.suspend is true. Suspension hides the
	// underlying condition state on purpose: a suspended resource is not
	// being reconciled, so its conditions may be stale.
	StatusSuspended Status = "Suspended"

	// StatusReady means a condition with type "Ready" and status "True"
	// is present.
	StatusReady Status = "Ready"

	// StatusFailed means the resource is neither suspended nor ready.
	// Resources that have not reported conditions yet fall in here too.
	StatusFailed Status = "Failed"
)

// Condition is a parsed entry from status.conditions.
type Condition struct {
	Type    string
	Status  string
	Reason  string
	Message string
}

// Evaluate classifies an unstructured resource. The order is fixed:
// spec.suspend first, then a Ready=True condition, otherwise Failed.
func Evaluate(obj *unstructured.Unstructured) Status {
	if IsSuspended(obj) {
		return StatusSuspended
	}
	if IsReady(obj) {
		return StatusReady
	}
	return StatusFailed
}

// IsSuspended reports whether spec.suspend is set to true.
func IsSuspended(obj *unstructured.Unstructured) bool {
	suspended, found, err := unstructured.NestedBool(obj.Object, "spec", "suspend")
	if err != nil || !found {
		return false
	}
	return suspended
}

// IsReady reports whether a condition with type "Ready" and status "True"
// is present in status.conditions.
func IsReady(obj *unstructured.Unstructured) bool {
	for _, cond := range Conditions(obj) {
		if cond.Type == "Ready" && cond.Status == "True" {
			return true
		}
	}
	return false
}

// Conditions extracts status.conditions, skipping malformed entries.
func Conditions(obj *unstructured.Unstructured) []Condition {
	raw, found, err := unstructured.NestedSlice(obj.Object, "status", "conditions")
	if err != nil || !found {
		return nil
	}

	conditions := make([]Condition, 0, len(raw))
	for _, item := range raw {
		condMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		conditions = append(conditions, Condition{
			Type:    stringField(condMap, "type"),
			Status:  stringField(condMap, "status"),
			Reason:  stringField(condMap, "reason"),
			Message: stringField(condMap, "message"),
		})
	}
	return conditions
}

// FindCondition returns the first condition of the given type, or nil.
func FindCondition(obj *unstructured.Unstructured, condType string) *Condition {
	for _, cond := range Conditions(obj) {
		if cond.Type == condType {
			return &cond
		}
	}
	return nil
}

// Message returns the message of the Ready condition, or the first
// condition message available when no Ready condition exists.
func Message(obj *unstructured.Unstructured) string {
	conditions := Conditions(obj)
	for _, cond := range conditions {
		if cond.Type == "Ready" {
			return cond.Message
		}
	}
	if len(conditions) > 0 {
		return conditions[0].Message
	}
	return ""
}

// Counts aggregates classification results over a set of resources.
type Counts struct {
	Ready     int
	Failed    int
	Suspended int
}

// Total returns the number of counted resources.
func (c Counts) Total() int {
	return c.Ready + c.Failed + c.Suspended
}

// Count classifies each resource and tallies the results.
func Count(objs []unstructured.Unstructured) Counts {
	var counts Counts
	for i := range objs {
		switch Evaluate(&objs[i]) {
		case StatusSuspended:
			counts.Suspended++
		case StatusReady:
			counts.Ready++
		default:
			counts.Failed++
		}
	}
	return counts
}

func stringField(m map[string]interface{}, key string) string {
	value, ok := m[key].(string)
	if !ok {
		return ""
	}
	return value
}
