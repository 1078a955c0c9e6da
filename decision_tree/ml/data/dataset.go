/*
	数据集的schema：每个属性是数值还是非数值，非数值属性的取值被编码成从0开始的整数，
	label同样编码成 0..NumLabels-1。实例只保存编码后的float64。
*/

package data

import (
	"fmt"

	"github.com/pkg/errors"

	"rds-igsplit/utils"
)

// AttributeType 属性的类别
type AttributeType int8

const (
	NonNumeric AttributeType = iota // NonNumeric 非数值类型，只做相等比较
	Numeric                         // Numeric 数值类型，可以按阈值划分
)

func (t AttributeType) String() string {
	switch t {
	case NonNumeric:
		return "categorical"
	case Numeric:
		return "numerical"
	default:
		return fmt.Sprintf("AttributeType(%d)", int8(t))
	}
}

type Attribute struct {
	Name string
	Type AttributeType
	// Categories 非数值属性的取值，下标即编码
	Categories []string
}

func (a *Attribute) IsNumerical() bool {
	return a.Type == Numeric
}

type Dataset struct {
	attributes []*Attribute
	labels     []string // labels 下标即label编码
	// categoryIndex/labelIndex 编码的反查表
	categoryIndex []map[string]int
	labelIndex    map[string]int
}

// NewDataset labels至少要有一个，否则任何实例都没法合法
func NewDataset(attributes []*Attribute, labels []string) (*Dataset, error) {
	if len(labels) == 0 {
		return nil, errors.Wrap(utils.ErrInvalidArgument, "dataset needs at least one label")
	}
	d := &Dataset{
		attributes:    attributes,
		labels:        labels,
		categoryIndex: make([]map[string]int, len(attributes)),
		labelIndex:    make(map[string]int, len(labels)),
	}
	for i, attr := range attributes {
		if attr == nil {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "attribute %d is nil", i)
		}
		if attr.Type == NonNumeric {
			d.categoryIndex[i] = make(map[string]int, len(attr.Categories))
			for code, c := range attr.Categories {
				d.categoryIndex[i][c] = code
			}
		}
	}
	for code, label := range labels {
		if _, has := d.labelIndex[label]; has {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "duplicated label %q", label)
		}
		d.labelIndex[label] = code
	}
	return d, nil
}

func (d *Dataset) NumAttributes() int {
	return len(d.attributes)
}

func (d *Dataset) NumLabels() int {
	return len(d.labels)
}

func (d *Dataset) Labels() []string {
	return d.labels
}

func (d *Dataset) checkAttr(attr int) error {
	if attr < 0 || attr >= len(d.attributes) {
		return errors.Wrapf(utils.ErrInvalidArgument, "attribute index %d out of range [0, %d)", attr, len(d.attributes))
	}
	return nil
}

func (d *Dataset) Attribute(attr int) (*Attribute, error) {
	if err := d.checkAttr(attr); err != nil {
		return nil, err
	}
	return d.attributes[attr], nil
}

func (d *Dataset) IsNumerical(attr int) (bool, error) {
	a, err := d.Attribute(attr)
	if err != nil {
		return false, err
	}
	return a.IsNumerical(), nil
}

// AttributeIndex 按名字找属性，找不到返回-1
func (d *Dataset) AttributeIndex(name string) int {
	for i, attr := range d.attributes {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

// Encode 把非数值属性的原始取值转为编码，新的取值会追加到Categories末尾
func (d *Dataset) Encode(attr int, raw string) (float64, error) {
	a, err := d.Attribute(attr)
	if err != nil {
		return 0, err
	}
	if a.IsNumerical() {
		return 0, errors.Wrapf(utils.ErrWrongDataType, "attribute %q is numerical", a.Name)
	}
	index := d.categoryIndex[attr]
	code, has := index[raw]
	if !has {
		code = len(a.Categories)
		a.Categories = append(a.Categories, raw)
		index[raw] = code
	}
	return float64(code), nil
}

// Decode 编码转回原始取值，数值属性直接格式化
func (d *Dataset) Decode(attr int, value float64) string {
	a, err := d.Attribute(attr)
	if err != nil || a.IsNumerical() {
		return fmt.Sprintf("%v", value)
	}
	code := int(value)
	if code < 0 || code >= len(a.Categories) || float64(code) != value {
		return fmt.Sprintf("%v", value)
	}
	return a.Categories[code]
}

func (d *Dataset) LabelCode(name string) (int, bool) {
	code, has := d.labelIndex[name]
	return code, has
}

// addLabel 加载数据时label集合未知，边读边加
func (d *Dataset) addLabel(name string) int {
	if code, has := d.labelIndex[name]; has {
		return code
	}
	code := len(d.labels)
	d.labels = append(d.labels, name)
	d.labelIndex[name] = code
	return code
}
