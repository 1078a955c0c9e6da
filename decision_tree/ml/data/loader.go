package data

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"rds-igsplit/rock-share/base/logger"
	"rds-igsplit/utils"
)

// LoadCsv 读取带表头的csv，按descriptor解释各列。非数值列和label列按首次出现顺序编码
func LoadCsv(path string, desc Descriptor) (*Data, error) {
	fs, err := os.Open(path)
	if err != nil {
		logger.Errorf("can not open the file %s, err is %v", path, err)
		return nil, errors.Wrapf(utils.ErrOpenFile, "%s: %v", path, err)
	}
	defer fs.Close()
	return ReadCsv(fs, desc)
}

func ReadCsv(in io.Reader, desc Descriptor) (*Data, error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(utils.ErrReadFile, "read header: %v", err)
	}
	if len(header) != len(desc) {
		return nil, errors.Wrapf(utils.ErrDescriptor, "descriptor has %d columns, file has %d", len(desc), len(header))
	}

	attributes := make([]*Attribute, 0, desc.NumAttributes())
	columnToAttr := make([]int, len(desc)) // -1 表示不是属性列
	for col, kind := range desc {
		columnToAttr[col] = -1
		switch kind {
		case NumericalColumn:
			columnToAttr[col] = len(attributes)
			attributes = append(attributes, &Attribute{Name: strings.TrimSpace(header[col]), Type: Numeric})
		case CategoricalColumn:
			columnToAttr[col] = len(attributes)
			attributes = append(attributes, &Attribute{Name: strings.TrimSpace(header[col]), Type: NonNumeric})
		}
	}
	dataset := &Dataset{
		attributes:    attributes,
		categoryIndex: make([]map[string]int, len(attributes)),
		labelIndex:    make(map[string]int),
	}
	for i, attr := range attributes {
		if attr.Type == NonNumeric {
			dataset.categoryIndex[i] = make(map[string]int)
		}
	}

	labelPos := desc.LabelPosition()
	instances := make([]*Instance, 0)
	lineNum := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			logger.Errorf("can not read line %d, err is %v", lineNum, err)
			return nil, errors.Wrapf(utils.ErrReadFile, "line %d: %v", lineNum, err)
		}
		values := make([]float64, len(attributes))
		for col, raw := range row {
			attr := columnToAttr[col]
			if attr < 0 {
				continue
			}
			raw = strings.TrimSpace(raw)
			if attributes[attr].Type == Numeric {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil || math.IsNaN(v) {
					return nil, errors.Wrapf(utils.ErrWrongDataType, "line %d column %q: %q is not a number", lineNum, header[col], raw)
				}
				values[attr] = v
			} else {
				values[attr], _ = dataset.Encode(attr, raw)
			}
		}
		label := dataset.addLabel(strings.TrimSpace(row[labelPos]))
		instances = append(instances, NewInstance(len(instances), values, label))
	}
	if dataset.NumLabels() == 0 {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "no instance in csv")
	}
	logger.Infof("csv loaded: %d instances, %d attributes, %d labels", len(instances), len(attributes), dataset.NumLabels())
	return NewData(dataset, instances)
}

// LoadNpy features为(n, m)的float64矩阵，labels为长度n的float64数组，取值需为非负整数。
// categorical 标记哪些列是非数值属性(其取值本身就是编码)
func LoadNpy(featuresPath, labelsPath string, categorical []bool) (*Data, error) {
	features := &mat.Dense{}
	if err := readNpy(featuresPath, features); err != nil {
		return nil, err
	}
	labels := make([]float64, 0)
	if err := readNpy(labelsPath, &labels); err != nil {
		return nil, err
	}
	return FromMatrix(features, labels, categorical)
}

func readNpy(path string, ptr interface{}) error {
	logger.Infof("try to load <%s>", path)
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(utils.ErrOpenFile, "%s: %v", path, err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return errors.Wrapf(utils.ErrReadFile, "%s: %v", path, err)
	}
	if err = r.Read(ptr); err != nil {
		return errors.Wrapf(utils.ErrReadFile, "%s: %v", path, err)
	}
	return nil
}

// FromMatrix 用矩阵构建数据集，属性名为 x0..x(m-1)，label名为编码本身
func FromMatrix(features mat.Matrix, labels []float64, categorical []bool) (*Data, error) {
	h, w := features.Dims()
	if len(labels) != h {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "%d labels for %d rows", len(labels), h)
	}
	numLabels := 0
	for i, l := range labels {
		if l < 0 || l != math.Trunc(l) {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "label %v at row %d is not a code", l, i)
		}
		if int(l)+1 > numLabels {
			numLabels = int(l) + 1
		}
	}

	attributes := make([]*Attribute, w)
	for q := 0; q < w; q++ {
		attributes[q] = &Attribute{Name: "x" + strconv.Itoa(q), Type: Numeric}
		if q < len(categorical) && categorical[q] {
			attributes[q].Type = NonNumeric
		}
	}
	labelNames := make([]string, numLabels)
	for i := range labelNames {
		labelNames[i] = strconv.Itoa(i)
	}
	dataset, err := NewDataset(attributes, labelNames)
	if err != nil {
		return nil, err
	}

	instances := make([]*Instance, h)
	for p := 0; p < h; p++ {
		values := make([]float64, w)
		mat.Row(values, p, features)
		instances[p] = NewInstance(p, values, int(labels[p]))
	}
	return NewData(dataset, instances)
}
