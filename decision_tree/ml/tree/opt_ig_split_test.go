package tree

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/utils"
)

func TestNumericalSplit(t *testing.T) {
	Convey("numerical split", t, func() {
		Convey("a perfect split selects threshold 3 with 1 bit of gain", func() {
			d := column(t, data.Numeric, []float64{1, 2, 3, 4}, []int{0, 0, 1, 1}, 2)
			split, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			So(split.HasThreshold, ShouldBeTrue)
			So(split.Threshold, ShouldEqual, 3.0)
			So(split.Gain, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("instance order does not matter", func() {
			d := column(t, data.Numeric, []float64{4, 1, 3, 2}, []int{1, 0, 1, 0}, 2)
			split, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			So(split.Threshold, ShouldEqual, 3.0)
			So(split.Gain, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("a single distinct value yields exactly zero gain", func() {
			d := column(t, data.Numeric, []float64{5, 5, 5, 5, 5}, []int{0, 1, 1, 0, 2}, 3)
			split, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			So(split.Threshold, ShouldEqual, 5.0)
			So(split.Gain, ShouldEqual, 0.0)
		})

		Convey("equal gains keep the first threshold", func() {
			// 阈值2和3的增益完全相同
			d := column(t, data.Numeric, []float64{1, 2, 3}, []int{0, 1, 0}, 2)
			split, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			So(split.Threshold, ShouldEqual, 2.0)
		})

		Convey("duplicated values land in one histogram slot", func() {
			d := column(t, data.Numeric, []float64{2, 1, 2, 2, 1, 3}, []int{1, 0, 1, 1, 0, 1}, 2)
			split, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			So(split.Threshold, ShouldEqual, 2.0)
			So(split.Gain, ShouldAlmostEqual, Entropy([]int{2, 4}, 6), 1e-12)
		})

		Convey("an empty slice violates the search invariant", func() {
			d := column(t, data.Numeric, nil, nil, 2)
			_, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(errors.Is(err, utils.ErrInternalInvariant), ShouldBeTrue)
		})
	})
}

func TestCategoricalSplit(t *testing.T) {
	Convey("categorical split", t, func() {
		Convey("a,a,b,b against 0,0,1,1 yields 1 bit", func() {
			d := column(t, data.NonNumeric, nil, nil, 2)
			dataset := d.Dataset()
			instances := make([]*data.Instance, 0, 4)
			for i, raw := range []string{"a", "a", "b", "b"} {
				code, err := dataset.Encode(0, raw)
				So(err, ShouldBeNil)
				instances = append(instances, data.NewInstance(i, []float64{code}, i/2))
			}
			d, err := data.NewData(dataset, instances)
			So(err, ShouldBeNil)

			split, err := OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			So(split.HasThreshold, ShouldBeFalse)
			So(split.Gain, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("reordering the (value, label) multiset keeps the gain", func() {
			values := []float64{0, 1, 2, 0, 1, 2, 2, 0}
			labels := []int{0, 1, 1, 0, 2, 2, 1, 1}
			first, err := OptIgSplit{}.ComputeSplit(column(t, data.NonNumeric, values, labels, 3), 0)
			So(err, ShouldBeNil)

			r := rand.New(rand.NewSource(3))
			for round := 0; round < 10; round++ {
				perm := r.Perm(len(values))
				shuffledValues := make([]float64, len(values))
				shuffledLabels := make([]int, len(labels))
				for i, p := range perm {
					shuffledValues[i], shuffledLabels[i] = values[p], labels[p]
				}
				split, err := OptIgSplit{}.ComputeSplit(column(t, data.NonNumeric, shuffledValues, shuffledLabels, 3), 0)
				So(err, ShouldBeNil)
				So(split.Gain, ShouldAlmostEqual, first.Gain, 1e-12)
			}
		})

		Convey("an empty slice has zero gain", func() {
			split, err := OptIgSplit{}.ComputeSplit(column(t, data.NonNumeric, nil, nil, 2), 0)
			So(err, ShouldBeNil)
			So(split.Gain, ShouldEqual, 0.0)
		})
	})
}

func TestSplitProperties(t *testing.T) {
	Convey("split properties on random slices", t, func() {
		r := rand.New(rand.NewSource(42))
		evaluator := OptIgSplit{}

		Convey("gain is never meaningfully negative", func() {
			for round := 0; round < 30; round++ {
				d := randomData(t, r, 1+r.Intn(60), 1+r.Intn(8), 1+r.Intn(4))
				for attr := 0; attr < 2; attr++ {
					split, err := evaluator.ComputeSplit(d, attr)
					So(err, ShouldBeNil)
					So(split.Gain, ShouldBeGreaterThanOrEqualTo, -GainEpsilon)
				}
			}
		})

		Convey("homogeneous labels give zero gain on every attribute", func() {
			rows := make([][]float64, 20)
			labels := make([]int, 20)
			for i := range rows {
				rows[i] = []float64{r.Float64(), float64(r.Intn(4))}
				labels[i] = 2
			}
			d := newTestData(t, []data.AttributeType{data.Numeric, data.NonNumeric}, rows, labels, 3)
			for attr := 0; attr < 2; attr++ {
				split, err := evaluator.ComputeSplit(d, attr)
				So(err, ShouldBeNil)
				So(split.Gain, ShouldAlmostEqual, 0.0, GainEpsilon)
			}
		})

		Convey("the optimized and the reference evaluators agree", func() {
			for round := 0; round < 30; round++ {
				d := randomData(t, r, 1+r.Intn(80), 1+r.Intn(10), 1+r.Intn(5))
				for attr := 0; attr < 2; attr++ {
					opt, err := evaluator.ComputeSplit(d, attr)
					So(err, ShouldBeNil)
					ref, err := DefaultIgSplit{}.ComputeSplit(d, attr)
					So(err, ShouldBeNil)
					So(opt, ShouldResemble, ref)
				}
			}
		})
	})
}

func TestIncrementalSweepEquivalence(t *testing.T) {
	Convey("every sweep step equals the gain of histograms rebuilt from scratch", t, func() {
		r := rand.New(rand.NewSource(11))
		for round := 0; round < 20; round++ {
			d := randomData(t, r, 2+r.Intn(100), 2+r.Intn(15), 2+r.Intn(4))
			numLabels := d.Dataset().NumLabels()

			values, err := sortedValues(d, 0)
			So(err, ShouldBeNil)
			h := newHistogram(values, numLabels)
			So(h.computeFrequencies(d, 0), ShouldBeNil)
			hy := Entropy(h.countAll, d.Size())

			steps := 0
			h.sweep(hy, d.Size(), func(index int, ig float64) {
				steps++
				So(ig, ShouldEqual, thresholdGain(d, 0, numLabels, hy, values[index]))
			})
			So(steps, ShouldEqual, len(values))
		}
	})
}

func TestComputeSplitErrors(t *testing.T) {
	Convey("an out of range attribute surfaces the accessor's invalid argument", t, func() {
		d := column(t, data.Numeric, []float64{1, 2}, []int{0, 1}, 2)
		for _, attr := range []int{-1, 1, 10} {
			_, err := OptIgSplit{}.ComputeSplit(d, attr)
			So(errors.Is(err, utils.ErrInvalidArgument), ShouldBeTrue)
			_, err = DefaultIgSplit{}.ComputeSplit(d, attr)
			So(errors.Is(err, utils.ErrInvalidArgument), ShouldBeTrue)
		}
	})
}

func TestConcurrentComputeSplit(t *testing.T) {
	Convey("concurrent evaluations on one slice are independent", t, func() {
		d := randomData(t, rand.New(rand.NewSource(5)), 200, 12, 3)
		want := make([]Split, 2)
		for attr := range want {
			split, err := OptIgSplit{}.ComputeSplit(d, attr)
			So(err, ShouldBeNil)
			want[attr] = split
		}

		got := make([]Split, 16)
		errs := make([]error, 16)
		var wg sync.WaitGroup
		for i := range got {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				got[i], errs[i] = OptIgSplit{}.ComputeSplit(d, i%2)
			}(i)
		}
		wg.Wait()
		for i := range got {
			So(errs[i], ShouldBeNil)
			So(got[i], ShouldResemble, want[i%2])
		}
	})
}
