package layout

// Measurer 负责测量一段文本在当前字体下的渲染宽度（px）。
// 换行只依赖这一能力，便于替换为任意字形度量后端。
type Measurer interface {
	TextWidth(s string) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(s string) float64

// TextWidth 实现 Measurer。
func (f MeasureFunc) TextWidth(s string) float64 { return f(s) }
