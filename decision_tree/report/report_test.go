package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/yourbasic/bit"
	"gopkg.in/yaml.v3"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
	"rds-igsplit/utils"
)

const weatherCsv = `outlook,temperature,humidity,windy,play
sunny,85,85,false,no
sunny,80,90,true,no
overcast,83,86,false,yes
rainy,70,96,false,yes
rainy,68,80,false,yes
rainy,65,70,true,no
overcast,64,65,true,yes
sunny,72,95,false,no
sunny,69,70,false,yes
rainy,75,80,false,yes
sunny,75,70,true,yes
overcast,72,90,true,yes
overcast,81,75,false,yes
rainy,71,91,true,no
`

func loadWeather(t *testing.T) *data.Data {
	t.Helper()
	desc, err := data.ParseDescriptor("C 2 N C L")
	if err != nil {
		t.Fatal(err)
	}
	d, err := data.ReadCsv(strings.NewReader(weatherCsv), desc)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// failingSplit 在指定属性上返回错误
type failingSplit struct {
	attr int
}

func (f failingSplit) ComputeSplit(d *data.Data, attr int) (tree.Split, error) {
	if attr == f.attr {
		return tree.Split{}, errors.Wrap(utils.ErrInternalInvariant, "boom")
	}
	return tree.OptIgSplit{}.ComputeSplit(d, attr)
}

func TestEvaluate(t *testing.T) {
	Convey("Evaluate", t, func() {
		d := loadWeather(t)
		ctx := context.Background()

		Convey("covers every attribute in index order", func() {
			splits, err := Evaluate(ctx, d, tree.OptIgSplit{}, nil, 2)
			So(err, ShouldBeNil)
			So(len(splits), ShouldEqual, 4)
			for i, split := range splits {
				So(split.Attr, ShouldEqual, i)
				want, err := tree.OptIgSplit{}.ComputeSplit(d, i)
				So(err, ShouldBeNil)
				So(split, ShouldResemble, want)
			}
			// outlook 的增益约为 0.2467 bit
			So(splits[0].Gain, ShouldAlmostEqual, 0.2467, 1e-4)
			So(splits[1].HasThreshold, ShouldBeTrue)
			So(splits[3].HasThreshold, ShouldBeFalse)
		})

		Convey("honours the attribute selection", func() {
			splits, err := Evaluate(ctx, d, tree.OptIgSplit{}, bit.New(3, 1), 0)
			So(err, ShouldBeNil)
			So(len(splits), ShouldEqual, 2)
			So(splits[0].Attr, ShouldEqual, 1)
			So(splits[1].Attr, ShouldEqual, 3)

			_, err = Evaluate(ctx, d, tree.OptIgSplit{}, bit.New(4), 1)
			So(errors.Is(err, utils.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("returns the first evaluator error", func() {
			_, err := Evaluate(ctx, d, failingSplit{attr: 2}, nil, 1)
			So(errors.Is(err, utils.ErrInternalInvariant), ShouldBeTrue)
		})

		Convey("stops on a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Evaluate(cancelled, d, tree.OptIgSplit{}, nil, 1)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestParseAttrs(t *testing.T) {
	Convey("ParseAttrs accepts indexes and names", t, func() {
		dataset := loadWeather(t).Dataset()

		attrs, err := ParseAttrs(dataset, "0, windy ,2")
		So(err, ShouldBeNil)
		So(attrs.Size(), ShouldEqual, 3)
		So(attrs.Contains(0) && attrs.Contains(2) && attrs.Contains(3), ShouldBeTrue)

		attrs, err = ParseAttrs(dataset, "")
		So(err, ShouldBeNil)
		So(attrs.Empty(), ShouldBeTrue)

		for _, s := range []string{"play", "4", "-1", "size"} {
			_, err = ParseAttrs(dataset, s)
			So(errors.Is(err, utils.ErrInvalidArgument), ShouldBeTrue)
		}
	})
}

func TestEncode(t *testing.T) {
	Convey("Encode", t, func() {
		d := loadWeather(t)
		splits, err := Evaluate(context.Background(), d, tree.OptIgSplit{}, nil, 0)
		So(err, ShouldBeNil)

		Convey("json carries thresholds only for numerical attributes", func() {
			var buf bytes.Buffer
			So(Encode(&buf, FormatJson, d.Dataset(), splits), ShouldBeNil)
			rows := make([]Row, 0)
			So(json.Unmarshal(buf.Bytes(), &rows), ShouldBeNil)
			So(len(rows), ShouldEqual, 4)
			So(rows[0].Name, ShouldEqual, "outlook")
			So(rows[0].Type, ShouldEqual, "categorical")
			So(rows[0].Threshold, ShouldBeNil)
			So(rows[1].Type, ShouldEqual, "numerical")
			So(*rows[1].Threshold, ShouldEqual, splits[1].Threshold)
		})

		Convey("yaml lists the same rows", func() {
			var buf bytes.Buffer
			So(Encode(&buf, FormatYaml, d.Dataset(), splits), ShouldBeNil)
			rows := make([]Row, 0)
			So(yaml.Unmarshal(buf.Bytes(), &rows), ShouldBeNil)
			So(len(rows), ShouldEqual, 4)
			So(rows[2].Name, ShouldEqual, "humidity")
			So(rows[2].Gain, ShouldAlmostEqual, splits[2].Gain, 1e-12)
		})

		Convey("table shows every attribute", func() {
			var buf bytes.Buffer
			So(Encode(&buf, FormatTable, d.Dataset(), splits), ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "INFORMATION GAIN")
			for _, name := range []string{"outlook", "temperature", "humidity", "windy"} {
				So(out, ShouldContainSubstring, name)
			}
		})

		Convey("ParseFormat", func() {
			f, err := ParseFormat(" YML ")
			So(err, ShouldBeNil)
			So(f, ShouldEqual, FormatYaml)
			_, err = ParseFormat("xml")
			So(errors.Is(err, utils.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestStumpDot(t *testing.T) {
	Convey("StumpDot", t, func() {
		d := loadWeather(t)

		Convey("a numerical split has two children", func() {
			split, err := tree.OptIgSplit{}.ComputeSplit(d, 1)
			So(err, ShouldBeNil)
			dot, err := StumpDot(d, split)
			So(err, ShouldBeNil)
			So(dot, ShouldContainSubstring, "digraph G")
			So(dot, ShouldContainSubstring, "samples = 14")
			So(strings.Count(dot, "->"), ShouldEqual, 2)
		})

		Convey("a categorical split has one child per value", func() {
			split, err := tree.OptIgSplit{}.ComputeSplit(d, 0)
			So(err, ShouldBeNil)
			dot, err := StumpDot(d, split)
			So(err, ShouldBeNil)
			So(strings.Count(dot, "->"), ShouldEqual, 3)
			So(dot, ShouldContainSubstring, "overcast")
		})

		Convey("WriteStumpDot writes the graph to disk", func() {
			split, err := tree.OptIgSplit{}.ComputeSplit(d, 3)
			So(err, ShouldBeNil)
			path := filepath.Join(t.TempDir(), "stump.dot")
			So(WriteStumpDot(path, d, split), ShouldBeNil)
			content, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(content), ShouldContainSubstring, "digraph G")
		})
	})
}
