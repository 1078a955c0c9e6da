/*
	一次 ComputeSplit 调用内部的频数直方图：counts[取值下标][label]，countAll[label]。
	取值到下标用一次建好的map查找，相同取值一定落到同一个下标上。
	直方图只在一次调用内有效，不在调用之间复用。
*/

package tree

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/utils"
)

type histogram struct {
	values     []float64   // values 属性的各个取值，counts的下标与之对应
	valueIndex map[float64]int
	counts     [][]int // counts[i][label] 取值为values[i]的实例中各label的数量
	countAll   []int   // countAll[label] 全部实例中各label的数量；数值划分时表示阈值及以上的部分
	countLess  []int   // countLess[label] 数值划分时阈值以下的部分
}

func newHistogram(values []float64, numLabels int) *histogram {
	h := &histogram{
		values:     values,
		valueIndex: make(map[float64]int, len(values)),
		counts:     make([][]int, len(values)),
		countAll:   make([]int, numLabels),
		countLess:  make([]int, numLabels),
	}
	// 连续分配，counts[i]是其中的一段
	backing := make([]int, len(values)*numLabels)
	for i, v := range values {
		h.counts[i] = backing[i*numLabels : (i+1)*numLabels : (i+1)*numLabels]
		if _, has := h.valueIndex[v]; !has {
			h.valueIndex[v] = i // 只记第一次出现的下标
		}
	}
	return h
}

// computeFrequencies 遍历一次切片，填充counts和countAll
func (h *histogram) computeFrequencies(d *data.Data, attr int) error {
	for i := 0; i < d.Size(); i++ {
		ins := d.Get(i)
		index, has := h.valueIndex[ins.Get(attr)]
		if !has {
			// values 来自切片本身，只有 NaN 之类无法相等比较的取值会走到这里
			return errors.Wrapf(utils.ErrInternalInvariant, "value %v of attribute %d not in the value list", ins.Get(attr), attr)
		}
		h.counts[index][ins.Label]++
		h.countAll[ins.Label]++
	}
	return nil
}

// sortedValues 切片中该属性出现过的取值，升序且去重
func sortedValues(d *data.Data, attr int) ([]float64, error) {
	values, err := d.Values(attr)
	if err != nil {
		return nil, err
	}
	// Values 返回的是新切片，可以原地排序
	slices.Sort(values)
	return slices.Compact(values), nil
}
