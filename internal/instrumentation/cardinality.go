package instrumentation

import "strings"

// ClusterType buckets cluster names for metric labels. Full cluster names
// would make label cardinality unbounded, so names are classified into a
// fixed set of environment categories instead.
type ClusterType string

const (
	ClusterTypeProduction  ClusterType = "production"
	ClusterTypeStaging     ClusterType = "staging"
	ClusterTypeDevelopment ClusterType = "development"
	ClusterTypeCICD        ClusterType = "cicd"
	ClusterTypeOperations  ClusterType = "operations"

	// ClusterTypeManagement is the bucket for an empty cluster name, which
	// means the query ran against the management cluster itself.
	ClusterTypeManagement ClusterType = "management"

	// ClusterTypeOther catches names following no known convention.
	ClusterTypeOther ClusterType = "other"
)

// classificationRules maps each bucket to the name fragments that select it.
// Order matters: cicd names often embed "prod" or "dev", so they are checked
// first.
var classificationRules = []struct {
	clusterType ClusterType
	prefixes    []string
	suffixes    []string
	substrings  []string
}{
	{
		clusterType: ClusterTypeCICD,
		substrings:  []string{"cicd"},
	},
	{
		clusterType: ClusterTypeOperations,
		prefixes:    []string{"ops-", "ops_"},
		suffixes:    []string{"-ops"},
		substrings:  []string{"operations", "-ops-"},
	},
	{
		clusterType: ClusterTypeProduction,
		prefixes:    []string{"prod-", "prod_"},
		suffixes:    []string{"-prod"},
		substrings:  []string{"production", "-prod-"},
	},
	{
		clusterType: ClusterTypeStaging,
		prefixes:    []string{"stg-"},
		suffixes:    []string{"-stg"},
		substrings:  []string{"staging", "-stg-"},
	},
	{
		clusterType: ClusterTypeDevelopment,
		prefixes:    []string{"dev-", "dev_", "demo", "test-", "test_"},
		suffixes:    []string{"-dev", "-test"},
		substrings:  []string{"development", "-dev-", "-demo-", "-test-"},
	},
}

// ClassifyClusterName maps a cluster name onto its ClusterType bucket.
// Matching is case-insensitive. Names following no known convention (for
// example "live-" or "uat-" prefixes) classify as "other"; such clusters
// either get renamed or a wrapper classifier handles them.
//
//	ClassifyClusterName("")            // "management"
//	ClassifyClusterName("prod-wc-01")  // "production"
//	ClassifyClusterName("cicddev")     // "cicd"
//	ClassifyClusterName("my-cluster")  // "other"
func ClassifyClusterName(name string) string {
	if name == "" {
		return string(ClusterTypeManagement)
	}

	nameLower := strings.ToLower(name)
	for _, rule := range classificationRules {
		for _, p := range rule.prefixes {
			if strings.HasPrefix(nameLower, p) {
				return string(rule.clusterType)
			}
		}
		for _, s := range rule.suffixes {
			if strings.HasSuffix(nameLower, s) {
				return string(rule.clusterType)
			}
		}
		for _, sub := range rule.substrings {
			if strings.Contains(nameLower, sub) {
				return string(rule.clusterType)
			}
		}
	}

	return string(ClusterTypeOther)
}
