package data

import (
	"github.com/pkg/errors"

	"rds-igsplit/utils"
)

// Data 某个树结点上的实例切片，只读
type Data struct {
	dataset   *Dataset
	instances []*Instance
}

// NewData 检查每个实例的属性个数和label范围
func NewData(dataset *Dataset, instances []*Instance) (*Data, error) {
	if dataset == nil {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "nil dataset")
	}
	numAttr, numLabels := dataset.NumAttributes(), dataset.NumLabels()
	for i, ins := range instances {
		if ins.NumValues() != numAttr {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "instance %d has %d values, dataset has %d attributes", i, ins.NumValues(), numAttr)
		}
		if ins.Label < 0 || ins.Label >= numLabels {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "instance %d label %d out of range [0, %d)", i, ins.Label, numLabels)
		}
	}
	return &Data{dataset: dataset, instances: instances}, nil
}

func (d *Data) Dataset() *Dataset {
	return d.dataset
}

func (d *Data) Size() int {
	return len(d.instances)
}

func (d *Data) IsEmpty() bool {
	return len(d.instances) == 0
}

func (d *Data) Get(i int) *Instance {
	return d.instances[i]
}

// Values 该属性在切片中出现过的取值，去重，保持首次出现的顺序
func (d *Data) Values(attr int) ([]float64, error) {
	if err := d.dataset.checkAttr(attr); err != nil {
		return nil, err
	}
	seen := make(map[float64]struct{})
	values := make([]float64, 0)
	for _, ins := range d.instances {
		v := ins.values[attr]
		if _, has := seen[v]; has {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}

// Subset 满足cond的实例组成的新切片，共享实例和dataset
func (d *Data) Subset(cond func(*Instance) bool) *Data {
	picked := make([]*Instance, 0)
	for _, ins := range d.instances {
		if cond(ins) {
			picked = append(picked, ins)
		}
	}
	return &Data{dataset: d.dataset, instances: picked}
}

// LabelCounts 各label的实例数
func (d *Data) LabelCounts() []int {
	counts := make([]int, d.dataset.NumLabels())
	for _, ins := range d.instances {
		counts[ins.Label]++
	}
	return counts
}
