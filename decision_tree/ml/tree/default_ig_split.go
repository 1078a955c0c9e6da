package tree

import (
	"github.com/pkg/errors"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/util/add"
	"rds-igsplit/utils"
)

// DefaultIgSplit 不做增量更新的实现：每个候选阈值(或取值)都重新扫描切片统计直方图。
// 复杂度 O(n·取值数)，结果与 OptIgSplit 一致，用来校验或在小数据上使用
type DefaultIgSplit struct{}

func (s DefaultIgSplit) ComputeSplit(d *data.Data, attr int) (Split, error) {
	numerical, err := d.Dataset().IsNumerical(attr)
	if err != nil {
		return Split{}, err
	}

	numLabels := d.Dataset().NumLabels()
	size := d.Size()
	hy := Entropy(d.LabelCounts(), size)

	if !numerical {
		values, err := d.Values(attr)
		if err != nil {
			return Split{}, err
		}
		var hyx add.FloatAdder
		for _, v := range values {
			counts := labelCountsWhere(d, numLabels, func(ins *data.Instance) bool { return ins.Get(attr) == v })
			valueSize := sum(counts)
			hyx.Add(weight(valueSize, size) * Entropy(counts, valueSize))
		}
		return NewCategoricalSplit(attr, hy-hyx.Result()), nil
	}

	values, err := sortedValues(d, attr)
	if err != nil {
		return Split{}, err
	}
	best, bestIg := -1, NEG_INFINITY
	for index, threshold := range values {
		ig := thresholdGain(d, attr, numLabels, hy, threshold)
		if ig > bestIg {
			bestIg = ig
			best = index
		}
	}
	if best == -1 {
		return Split{}, errors.Wrapf(utils.ErrInternalInvariant, "no best split found for attribute %d on %d instances", attr, size)
	}
	return NewNumericalSplit(attr, bestIg, values[best]), nil
}

// thresholdGain 以 x < threshold 二分时的增益，两边直方图都从头统计
func thresholdGain(d *data.Data, attr, numLabels int, hy, threshold float64) float64 {
	countLess := labelCountsWhere(d, numLabels, func(ins *data.Instance) bool { return ins.Get(attr) < threshold })
	countGe := labelCountsWhere(d, numLabels, func(ins *data.Instance) bool { return ins.Get(attr) >= threshold })
	return splitGain(hy, countLess, countGe, d.Size())
}

func labelCountsWhere(d *data.Data, numLabels int, cond func(*data.Instance) bool) []int {
	counts := make([]int, numLabels)
	for i := 0; i < d.Size(); i++ {
		ins := d.Get(i)
		if cond(ins) {
			counts[ins.Label]++
		}
	}
	return counts
}
