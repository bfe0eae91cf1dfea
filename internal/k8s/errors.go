package k8s

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Sentinel errors for the cluster-access failure taxonomy.
// These errors can be checked using errors.Is() for programmatic error handling.
var (
	// ErrAPIUnavailable indicates that the requested resource kind is not
	// registered on the API server, most commonly because the operator
	// owning the CRD is not installed.
	ErrAPIUnavailable = errors.New("api not available")

	// ErrForbidden indicates that RBAC denied the request.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates that a named object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates an unparseable or unrecognized parameter
	// value, such as an unknown resource-type name.
	ErrInvalidArgument = errors.New("invalid argument")
)

// APIUnavailableError provides context about a resource kind that is not
// served by the cluster.
type APIUnavailableError struct {
	GroupVersion string
	Resource     string
	Reason       string
}

// Error implements the error interface.
func (e *APIUnavailableError) Error() string {
	return fmt.Sprintf("%s/%s is not available on this cluster: %s", e.GroupVersion, e.Resource, e.Reason)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *APIUnavailableError) Unwrap() error {
	return ErrAPIUnavailable
}

// ForbiddenError provides context about an RBAC denial.
type ForbiddenError struct {
	Resource  string
	Namespace string
	Reason    string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("access to %s in namespace %q denied: %s", e.Resource, e.Namespace, e.Reason)
	}
	return fmt.Sprintf("access to %s denied: %s", e.Resource, e.Reason)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NotFoundError provides context about a missing named object.
type NotFoundError struct {
	Resource  string
	Name      string
	Namespace string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s %q not found in namespace %q", e.Resource, e.Name, e.Namespace)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidArgumentError reports an unusable parameter value.
type InvalidArgumentError struct {
	Parameter string
	Value     string
	Reason    string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Parameter, e.Reason)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// classifyListError maps an API server error from a list call into the
// failure taxonomy. A 404 on a list means the resource kind itself is not
// served (the CRD is absent), not that a particular object is missing.
func classifyListError(err error, desc ResourceDescriptor, namespace string) error {
	switch {
	case err == nil:
		return nil
	case apierrors.IsNotFound(err):
		return &APIUnavailableError{
			GroupVersion: desc.GroupVersion(),
			Resource:     desc.Resource,
			Reason:       err.Error(),
		}
	case apierrors.IsForbidden(err):
		return &ForbiddenError{
			Resource:  desc.Resource,
			Namespace: namespace,
			Reason:    err.Error(),
		}
	default:
		return fmt.Errorf("failed to list %s: %w", desc.Resource, err)
	}
}

// classifyGetError maps an API server error from a single-object get into
// the failure taxonomy.
func classifyGetError(err error, desc ResourceDescriptor, namespace, name string) error {
	switch {
	case err == nil:
		return nil
	case apierrors.IsNotFound(err):
		return &NotFoundError{
			Resource:  desc.Resource,
			Name:      name,
			Namespace: namespace,
		}
	case apierrors.IsForbidden(err):
		return &ForbiddenError{
			Resource:  desc.Resource,
			Namespace: namespace,
			Reason:    err.Error(),
		}
	default:
		return fmt.Errorf("failed to get %s %q: %w", desc.Resource, name, err)
	}
}
