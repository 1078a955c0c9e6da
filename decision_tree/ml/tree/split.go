package tree

import (
	"fmt"

	"rds-igsplit/decision_tree/ml/data"
)

// Split 在某个属性上划分的结果。数值属性带阈值：小于Threshold的分到左边，其余分到右边
type Split struct {
	Attr         int     `json:"attr" yaml:"attr"`
	Gain         float64 `json:"gain" yaml:"gain"` // Gain 信息增益(bit)，浮点误差下可能略小于0
	Threshold    float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	HasThreshold bool    `json:"numerical" yaml:"numerical"`
}

func NewCategoricalSplit(attr int, gain float64) Split {
	return Split{Attr: attr, Gain: gain}
}

func NewNumericalSplit(attr int, gain, threshold float64) Split {
	return Split{Attr: attr, Gain: gain, Threshold: threshold, HasThreshold: true}
}

func (s Split) String() string {
	if s.HasThreshold {
		return fmt.Sprintf("Split[attr=%d, gain=%.6f, threshold=%v]", s.Attr, s.Gain, s.Threshold)
	}
	return fmt.Sprintf("Split[attr=%d, gain=%.6f]", s.Attr, s.Gain)
}

// IgSplit 计算某个结点上某个属性的最优划分。实现不能持有调用之间的状态，可以并发调用
type IgSplit interface {
	ComputeSplit(d *data.Data, attr int) (Split, error)
}
