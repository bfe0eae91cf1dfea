package k8s

const (
	// Service account paths - default Kubernetes in-cluster locations
	DefaultServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount"
	DefaultTokenPath          = DefaultServiceAccountPath + "/token"
	DefaultCACertPath         = DefaultServiceAccountPath + "/ca.crt"
	DefaultNamespacePath      = DefaultServiceAccountPath + "/namespace"

	// Default performance settings
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 // seconds

	// In-cluster context name
	InClusterContext = "in-cluster"

	// DefaultEventLimit caps how many events a single query returns.
	DefaultEventLimit = 20

	// DefaultLogTailLines is the default number of log lines returned
	// when the caller does not specify a tail length.
	DefaultLogTailLines = 100
)
