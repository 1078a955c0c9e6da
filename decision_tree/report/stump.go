package report

import (
	"fmt"
	"html"
	"os"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
	"rds-igsplit/rock-share/base/logger"
	"rds-igsplit/utils"
)

// StumpDot 划分得到的一层子结点，用graphviz描述。数值属性两个子结点，非数值属性每个取值一个
func StumpDot(d *data.Data, split tree.Split) (string, error) {
	dataset := d.Dataset()
	a, err := dataset.Attribute(split.Attr)
	if err != nil {
		return "", err
	}

	graphAst, _ := gographviz.Parse([]byte(`digraph G{}`))
	graph := gographviz.NewGraph()
	if err = gographviz.Analyse(graphAst, graph); err != nil {
		return "", errors.Wrapf(utils.ErrInternalInvariant, "analyse empty graph: %v", err)
	}

	root := fmt.Sprintf("<%s<br/>gain = %.6f<br/>samples = %d<br/>value = %v>",
		html.EscapeString(a.Name), split.Gain, d.Size(), d.LabelCounts())
	if err = graph.AddNode("G", "0", map[string]string{"label": root}); err != nil {
		return "", errors.Wrapf(utils.ErrInternalInvariant, "add root node: %v", err)
	}

	children := make([]*data.Data, 0)
	conditions := make([]string, 0)
	if split.HasThreshold {
		children = append(children,
			d.Subset(func(ins *data.Instance) bool { return ins.Get(split.Attr) < split.Threshold }),
			d.Subset(func(ins *data.Instance) bool { return ins.Get(split.Attr) >= split.Threshold }))
		conditions = append(conditions,
			fmt.Sprintf("&lt; %v", split.Threshold),
			fmt.Sprintf("&gt;= %v", split.Threshold))
	} else {
		values, err := d.Values(split.Attr)
		if err != nil {
			return "", err
		}
		for _, v := range values {
			v := v
			children = append(children, d.Subset(func(ins *data.Instance) bool { return ins.Get(split.Attr) == v }))
			conditions = append(conditions, "= "+html.EscapeString(dataset.Decode(split.Attr, v)))
		}
	}

	for i, child := range children {
		name := fmt.Sprintf("%d", i+1)
		label := fmt.Sprintf("<samples = %d<br/>value = %v>", child.Size(), child.LabelCounts())
		if err = graph.AddNode("G", name, map[string]string{"label": label}); err != nil {
			return "", errors.Wrapf(utils.ErrInternalInvariant, "add node %s: %v", name, err)
		}
		edge := map[string]string{"label": "<" + conditions[i] + ">"}
		if err = graph.AddEdge("0", name, true, edge); err != nil {
			return "", errors.Wrapf(utils.ErrInternalInvariant, "add edge to %s: %v", name, err)
		}
	}
	return graph.String(), nil
}

// WriteStumpDot 把StumpDot的结果写到文件
func WriteStumpDot(outPath string, d *data.Data, split tree.Split) error {
	dot, err := StumpDot(d, split)
	if err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		logger.Errorf("error when open file:%s--%v", outPath, err)
		return errors.Wrapf(utils.ErrOpenFile, "%s: %v", outPath, err)
	}
	defer out.Close()
	if _, err = out.WriteString(dot); err != nil {
		logger.Errorf("error when write to file:%s--%v", outPath, err)
		return errors.Wrapf(utils.ErrOpenFile, "%s: %v", outPath, err)
	}
	return nil
}
