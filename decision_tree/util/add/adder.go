package add

// FloatAdder accumulates float64 values with Kahan compensation, so long runs
// of small terms (entropy contributions, weights) do not drift.
type FloatAdder struct {
	sum float64 // running sum
	c   float64 // compensation carried into the next Add
}

func NewFloatAdder() *FloatAdder {
	return new(FloatAdder)
}

// Merge folds another adder into this one, keeping its pending compensation.
func (adder *FloatAdder) Merge(other FloatAdder) *FloatAdder {
	adder.Add(other.sum)
	adder.Add(-other.c)
	return adder
}

func (adder *FloatAdder) Add(num float64) {
	y := num - adder.c
	t := adder.sum + y
	adder.c = (t - adder.sum) - y
	adder.sum = t
}

func (adder *FloatAdder) Clear() {
	adder.sum = 0
	adder.c = 0
}

func (adder *FloatAdder) Result() float64 {
	return adder.sum
}

// Sum is a one-shot compensated sum of nums.
func Sum(nums ...float64) float64 {
	var adder FloatAdder
	for _, num := range nums {
		adder.Add(num)
	}
	return adder.Result()
}
