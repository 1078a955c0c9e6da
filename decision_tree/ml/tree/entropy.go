package tree

import (
	"math"

	"rds-igsplit/decision_tree/util/add"
)

// Entropy counts[i] 为label i的实例数，dataSize为实例总数。dataSize为0时熵为0
func Entropy(counts []int, dataSize int) float64 {
	if dataSize == 0 {
		return 0.0
	}

	var entropy add.FloatAdder
	for _, count := range counts {
		if count == 0 {
			continue // 否则 log(0) 得到 NaN
		}
		p := float64(count) / float64(dataSize)
		entropy.Add(-p * math.Log(p) / LOG2)
	}
	return entropy.Result()
}

func sum(counts []int) int {
	s := 0
	for _, c := range counts {
		s += c
	}
	return s
}

// addTo dst += src
func addTo(dst, src []int) {
	for i, c := range src {
		dst[i] += c
	}
}

// decFrom dst -= src
func decFrom(dst, src []int) {
	for i, c := range src {
		dst[i] -= c
	}
}
