package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
	"rds-igsplit/utils"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJson  Format = "json"
	FormatYaml  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJson, FormatYaml:
		return f, nil
	case "yml":
		return FormatYaml, nil
	default:
		return "", errors.Wrapf(utils.ErrInvalidArgument, "unknown output format %q", s)
	}
}

// Row 一个属性的划分结果，带上属性名和类型，供输出使用。非数值属性没有Threshold
type Row struct {
	Attr      int      `json:"attr" yaml:"attr"`
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	Gain      float64  `json:"gain" yaml:"gain"`
	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

func Rows(dataset *data.Dataset, splits []tree.Split) ([]Row, error) {
	rows := make([]Row, 0, len(splits))
	for _, split := range splits {
		a, err := dataset.Attribute(split.Attr)
		if err != nil {
			return nil, err
		}
		row := Row{Attr: split.Attr, Name: a.Name, Type: a.Type.String(), Gain: split.Gain}
		if split.HasThreshold {
			threshold := split.Threshold
			row.Threshold = &threshold
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode 按format输出划分结果
func Encode(w io.Writer, format Format, dataset *data.Dataset, splits []tree.Split) error {
	if format == FormatTable {
		return RenderTable(w, dataset, splits)
	}

	rows, err := Rows(dataset, splits)
	if err != nil {
		return err
	}
	switch format {
	case FormatJson:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	case FormatYaml:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err = encoder.Encode(rows); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return errors.Wrapf(utils.ErrInvalidArgument, "unknown output format %q", format)
	}
}
