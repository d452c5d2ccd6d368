package vector

import (
	"fmt"
	"strings"

	"github.com/hyperjump/pdfqa/pkg/utils"
)

// Metric selects how query and entry vectors are compared.
type Metric string

const (
	// MetricCosine compares directions; scores lie in [-1, 1].
	MetricCosine Metric = "cosine"
	// MetricL2 scores by Euclidean distance d as 1/(1+d), in (0, 1].
	MetricL2 Metric = "l2"
)

// ParseMetric converts a config value into a Metric. Empty selects cosine.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricCosine, "":
		return MetricCosine, nil
	case MetricL2:
		return MetricL2, nil
	default:
		return "", fmt.Errorf("unknown metric: %s (supported: cosine, l2)", s)
	}
}

// prepare returns the copy of v stored or queried under m. Cosine vectors are normalized so
// scoring reduces to a dot product.
func (m Metric) prepare(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	if m == MetricCosine {
		utils.NormalizeL2(out)
	}
	return out
}

// score compares two prepared vectors.
func (m Metric) score(a, b []float32) float64 {
	if m == MetricL2 {
		return 1 / (1 + utils.EuclideanDistance(a, b))
	}
	return utils.Dot(a, b)
}
