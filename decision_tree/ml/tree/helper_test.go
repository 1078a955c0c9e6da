package tree

import (
	"math/rand"
	"strconv"
	"testing"

	"rds-igsplit/decision_tree/ml/data"
)

// newTestData 每列一个属性，label名就是编码
func newTestData(t *testing.T, types []data.AttributeType, rows [][]float64, labels []int, numLabels int) *data.Data {
	t.Helper()
	attributes := make([]*data.Attribute, len(types))
	for i, typ := range types {
		attributes[i] = &data.Attribute{Name: "x" + strconv.Itoa(i), Type: typ}
	}
	labelNames := make([]string, numLabels)
	for i := range labelNames {
		labelNames[i] = strconv.Itoa(i)
	}
	dataset, err := data.NewDataset(attributes, labelNames)
	if err != nil {
		t.Fatal(err)
	}
	instances := make([]*data.Instance, len(rows))
	for i, row := range rows {
		instances[i] = data.NewInstance(i, row, labels[i])
	}
	d, err := data.NewData(dataset, instances)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// column 单属性数据
func column(t *testing.T, typ data.AttributeType, values []float64, labels []int, numLabels int) *data.Data {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}
	return newTestData(t, []data.AttributeType{typ}, rows, labels, numLabels)
}

// randomData 一列数值一列非数值，取值个数有限以便出现重复
func randomData(t *testing.T, r *rand.Rand, size, distinct, numLabels int) *data.Data {
	rows := make([][]float64, size)
	labels := make([]int, size)
	for i := range rows {
		rows[i] = []float64{float64(r.Intn(distinct)) * 0.5, float64(r.Intn(distinct))}
		labels[i] = r.Intn(numLabels)
	}
	return newTestData(t, []data.AttributeType{data.Numeric, data.NonNumeric}, rows, labels, numLabels)
}
