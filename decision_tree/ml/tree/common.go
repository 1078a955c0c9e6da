package tree

import "math"

// LOG2 换底用，熵统一按bit计
var LOG2 = math.Log(2)

var (
	INFINITY     = math.Inf(1)
	NEG_INFINITY = math.Inf(-1)
)

// GainEpsilon 浮点误差范围内的信息增益都视为0
const GainEpsilon = 1e-9
