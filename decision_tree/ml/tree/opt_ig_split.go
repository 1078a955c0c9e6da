/*
	基于信息增益的划分。非数值属性按取值多路划分计算增益；
	数值属性在排好序的取值上滑动阈值，用countLess/countAll两个累计直方图增量更新，
	每个候选阈值只需要O(label数)的工作量，不用重新扫描切片。
*/

package tree

import (
	"github.com/pkg/errors"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/util/add"
	"rds-igsplit/rock-share/base/logger"
	"rds-igsplit/utils"
)

// OptIgSplit 所有直方图都是单次调用内的局部变量，零值可用，可以并发调用
type OptIgSplit struct{}

func (s OptIgSplit) ComputeSplit(d *data.Data, attr int) (Split, error) {
	numerical, err := d.Dataset().IsNumerical(attr)
	if err != nil {
		return Split{}, err
	}
	if numerical {
		return s.numericalSplit(d, attr)
	}
	return s.categoricalSplit(d, attr)
}

// categoricalSplit 非数值属性：IG = H(Y) - Σ_v P(v)·H(Y|X=v)
func (s OptIgSplit) categoricalSplit(d *data.Data, attr int) (Split, error) {
	values, err := d.Values(attr)
	if err != nil {
		return Split{}, err
	}
	h := newHistogram(values, d.Dataset().NumLabels())
	if err = h.computeFrequencies(d, attr); err != nil {
		return Split{}, err
	}

	size := d.Size()
	hy := Entropy(h.countAll, size) // H(Y)
	var hyx add.FloatAdder          // H(Y|X)
	for index := range values {
		valueSize := sum(h.counts[index])
		hyx.Add(weight(valueSize, size) * Entropy(h.counts[index], valueSize))
	}
	return NewCategoricalSplit(attr, hy-hyx.Result()), nil
}

// numericalSplit 数值属性：在各个取值上尝试 x < v 的二分，取增益最大的v，增益相同时取靠前的
func (s OptIgSplit) numericalSplit(d *data.Data, attr int) (Split, error) {
	values, err := sortedValues(d, attr)
	if err != nil {
		return Split{}, err
	}
	h := newHistogram(values, d.Dataset().NumLabels())
	if err = h.computeFrequencies(d, attr); err != nil {
		return Split{}, err
	}

	size := d.Size()
	hy := Entropy(h.countAll, size)
	best, bestIg := h.sweep(hy, size, nil)
	if best == -1 {
		logger.Errorf("no best split found for attribute %d on %d instances", attr, size)
		return Split{}, errors.Wrapf(utils.ErrInternalInvariant, "no best split found for attribute %d on %d instances", attr, size)
	}
	return NewNumericalSplit(attr, bestIg, values[best]), nil
}

// sweep 按升序依次把每个取值作为阈值，visit非nil时每个阈值的增益都会回调一次。
// 每一步先用当前的countLess(< values[index])和countAll(>= values[index])算增益，
// 再把counts[index]从countAll挪到countLess
func (h *histogram) sweep(hy float64, size int, visit func(index int, ig float64)) (best int, bestIg float64) {
	best, bestIg = -1, NEG_INFINITY
	for index := range h.values {
		ig := splitGain(hy, h.countLess, h.countAll, size)
		if visit != nil {
			visit(index, ig)
		}
		if ig > bestIg {
			bestIg = ig
			best = index
		}
		addTo(h.countLess, h.counts[index])
		decFrom(h.countAll, h.counts[index])
	}
	return best, bestIg
}

// splitGain 二分的信息增益 H(Y) - P(less)·H(less) - P(ge)·H(ge)
func splitGain(hy float64, countLess, countGe []int, size int) float64 {
	ig := hy

	lessSize := sum(countLess)
	ig -= weight(lessSize, size) * Entropy(countLess, lessSize)

	geSize := sum(countGe)
	ig -= weight(geSize, size) * Entropy(countGe, geSize)
	return ig
}

// weight 用除法而不是乘倒数，保证 part == total 时正好是1
func weight(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
