package tween

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// DefaultEase 未配置缓动时使用的曲线
const DefaultEase = "outQuad"

// easeFuncs 缓动名称 -> gween 缓动函数
// 名称与场景配置文件中的 easing 字段一致
var easeFuncs = map[string]ease.TweenFunc{
	"linear": ease.Linear,

	"inQuad":    ease.InQuad,
	"outQuad":   ease.OutQuad,
	"inOutQuad": ease.InOutQuad,
	"outInQuad": ease.OutInQuad,

	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"outInCubic": ease.OutInCubic,

	"inQuart":    ease.InQuart,
	"outQuart":   ease.OutQuart,
	"inOutQuart": ease.InOutQuart,
	"outInQuart": ease.OutInQuart,

	"inQuint":    ease.InQuint,
	"outQuint":   ease.OutQuint,
	"inOutQuint": ease.InOutQuint,
	"outInQuint": ease.OutInQuint,

	"inSine":    ease.InSine,
	"outSine":   ease.OutSine,
	"inOutSine": ease.InOutSine,
	"outInSine": ease.OutInSine,

	"inExpo":    ease.InExpo,
	"outExpo":   ease.OutExpo,
	"inOutExpo": ease.InOutExpo,
	"outInExpo": ease.OutInExpo,

	"inCirc":    ease.InCirc,
	"outCirc":   ease.OutCirc,
	"inOutCirc": ease.InOutCirc,
	"outInCirc": ease.OutInCirc,

	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"outInElastic": ease.OutInElastic,

	"inBack":    ease.InBack,
	"outBack":   ease.OutBack,
	"inOutBack": ease.InOutBack,
	"outInBack": ease.OutInBack,

	"inBounce":    ease.InBounce,
	"outBounce":   ease.OutBounce,
	"inOutBounce": ease.InOutBounce,
	"outInBounce": ease.OutInBounce,
}

// EaseByName 根据名称查找缓动函数
// 空名称返回 DefaultEase 对应的函数
func EaseByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		name = DefaultEase
	}
	fn, ok := easeFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// EaseNames 返回所有支持的缓动名称（已排序）
func EaseNames() []string {
	names := make([]string, 0, len(easeFuncs))
	for name := range easeFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
