package data

// Instance 一条训练样本，values下标与Dataset的属性对应
type Instance struct {
	Id     int
	values []float64
	Label  int
}

func NewInstance(id int, values []float64, label int) *Instance {
	return &Instance{Id: id, values: values, Label: label}
}

// Get 不做越界检查，调用方应先通过 Data.Values 或 Dataset.Attribute 校验属性下标
func (ins *Instance) Get(attr int) float64 {
	return ins.values[attr]
}

func (ins *Instance) NumValues() int {
	return len(ins.values)
}
