package report

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yourbasic/bit"
	"golang.org/x/sync/errgroup"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
	"rds-igsplit/rock-share/base/logger"
	"rds-igsplit/utils"
)

// Evaluate 对attrs中的每个属性计算一次最优划分，最多workers个并发，workers<=0时不限制。
// attrs为nil或空集时计算全部属性。结果按属性下标升序排列，不在属性之间挑选最优
func Evaluate(ctx context.Context, d *data.Data, evaluator tree.IgSplit, attrs *bit.Set, workers int) ([]tree.Split, error) {
	selected, err := selectAttrs(d.Dataset(), attrs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	splits := make([]tree.Split, len(selected))
	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, attr := range selected {
		i, attr := i, attr
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			split, err := evaluator.ComputeSplit(d, attr)
			if err != nil {
				logger.Warnf("compute split of attribute %d failed: %v", attr, err)
				return err
			}
			splits[i] = split
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}
	logger.Infof("evaluated %d attributes on %d instances in %v", len(selected), d.Size(), time.Since(start))
	return splits, nil
}

// selectAttrs bit.Set按升序遍历，所以返回的下标有序
func selectAttrs(dataset *data.Dataset, attrs *bit.Set) ([]int, error) {
	numAttr := dataset.NumAttributes()
	if attrs == nil || attrs.Empty() {
		selected := make([]int, numAttr)
		for i := range selected {
			selected[i] = i
		}
		return selected, nil
	}
	if attrs.Max() >= numAttr {
		return nil, errors.Wrapf(utils.ErrInvalidArgument, "attribute %d out of range [0, %d)", attrs.Max(), numAttr)
	}
	selected := make([]int, 0, attrs.Size())
	attrs.Visit(func(n int) (skip bool) {
		selected = append(selected, n)
		return false
	})
	return selected, nil
}

// ParseAttrs 解析逗号分隔的属性列表，每一项可以是下标或属性名。空串表示全部属性
func ParseAttrs(dataset *data.Dataset, s string) (*bit.Set, error) {
	attrs := new(bit.Set)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		attr, err := strconv.Atoi(token)
		if err != nil {
			attr = dataset.AttributeIndex(token)
		}
		if attr < 0 || attr >= dataset.NumAttributes() {
			return nil, errors.Wrapf(utils.ErrInvalidArgument, "unknown attribute %q", token)
		}
		attrs.Add(attr)
	}
	return attrs, nil
}
