package data

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"rds-igsplit/utils"
)

// ColumnKind 数据文件中一列的用途
type ColumnKind byte

const (
	NumericalColumn   ColumnKind = 'N'
	CategoricalColumn ColumnKind = 'C'
	LabelColumn       ColumnKind = 'L'
	IgnoredColumn     ColumnKind = 'I'
)

// Descriptor 每一列一个ColumnKind，必须恰好有一列label
type Descriptor []ColumnKind

// ParseDescriptor 解析形如 "N C 3 N I L" 的描述，数字表示后面那一项重复的次数
func ParseDescriptor(s string) (Descriptor, error) {
	tokens := strings.Fields(strings.ToUpper(s))
	desc := make(Descriptor, 0, len(tokens))
	repeat := 1
	pendingRepeat := false
	for _, token := range tokens {
		if n, err := strconv.Atoi(token); err == nil {
			if pendingRepeat || n <= 0 {
				return nil, errors.Wrapf(utils.ErrDescriptor, "bad repeat %q in %q", token, s)
			}
			repeat, pendingRepeat = n, true
			continue
		}
		if len(token) != 1 {
			return nil, errors.Wrapf(utils.ErrDescriptor, "unknown token %q in %q", token, s)
		}
		kind := ColumnKind(token[0])
		switch kind {
		case NumericalColumn, CategoricalColumn, LabelColumn, IgnoredColumn:
		default:
			return nil, errors.Wrapf(utils.ErrDescriptor, "unknown token %q in %q", token, s)
		}
		for i := 0; i < repeat; i++ {
			desc = append(desc, kind)
		}
		repeat, pendingRepeat = 1, false
	}
	if pendingRepeat {
		return nil, errors.Wrapf(utils.ErrDescriptor, "dangling repeat in %q", s)
	}
	if desc.LabelPosition() < 0 {
		return nil, errors.Wrapf(utils.ErrDescriptor, "no label column in %q", s)
	}
	labels := 0
	for _, kind := range desc {
		if kind == LabelColumn {
			labels++
		}
	}
	if labels != 1 {
		return nil, errors.Wrapf(utils.ErrDescriptor, "%d label columns in %q", labels, s)
	}
	return desc, nil
}

func (desc Descriptor) LabelPosition() int {
	for i, kind := range desc {
		if kind == LabelColumn {
			return i
		}
	}
	return -1
}

// NumAttributes 除label和忽略列之外的列数
func (desc Descriptor) NumAttributes() int {
	n := 0
	for _, kind := range desc {
		if kind == NumericalColumn || kind == CategoricalColumn {
			n++
		}
	}
	return n
}
