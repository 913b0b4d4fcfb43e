package layout

import "math"

// 该文件定义换行结果与页面几何，供换行、渲染与调试 JSON 共用。

// 页面几何默认值，单位均为像素（px）。
const (
	DefaultPageWidth   = 800.0
	DefaultPageHeight  = 1200.0
	DefaultMargin      = 89.5
	DefaultPadding     = 50.0
	DefaultLineSpacing = 60.0

	MinLineSpacing = 30.0
	MaxLineSpacing = 100.0
)

// ValidLineSpacing 报告行距是否为 [MinLineSpacing, MaxLineSpacing] 内的整数。NaN 与 ±Inf 均无效。
func ValidLineSpacing(v float64) bool {
	return v >= MinLineSpacing && v <= MaxLineSpacing && v == math.Trunc(v)
}

// Geometry 描述固定的页面几何。
type Geometry struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Margin      float64 `json:"margin"`
	Padding     float64 `json:"padding"` // 预留字段，目前不参与定位
	LineSpacing float64 `json:"lineSpacing"`
}

// DefaultGeometry 返回 800×1200 的默认页面，行距由调用方指定。
func DefaultGeometry(lineSpacing float64) Geometry {
	return Geometry{
		Width:       DefaultPageWidth,
		Height:      DefaultPageHeight,
		Margin:      DefaultMargin,
		Padding:     DefaultPadding,
		LineSpacing: lineSpacing,
	}
}

// Budget 返回一行文本允许的最大宽度（不含两侧边距）。
func (g Geometry) Budget() float64 { return g.Width - 2*g.Margin }

// Placement 表示一段已经确定坐标的文本，(X, Y) 为行的左上角。
type Placement struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Result 保存换行后的放置序列与最终的纵向游标。
type Result struct {
	Geometry   Geometry    `json:"geometry"`
	Placements []Placement `json:"placements"`
	CursorY    float64     `json:"cursorY"`
}

// Overflow 报告是否有行落在页面可见区域之外。仅用于提示，不视为错误。
func (r *Result) Overflow() bool {
	if r == nil {
		return false
	}
	for _, p := range r.Placements {
		if p.Y >= r.Geometry.Height {
			return true
		}
	}
	return false
}
