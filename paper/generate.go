package paper

import (
	"image"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// Rules 描述内置横线纸的线条位置（px）。
type Rules struct {
	Top     float64 // 第一条横线的位置
	Spacing float64 // 横线间距，通常与行距一致
	Margin  float64 // 左侧竖线位置，<=0 时不绘制
}

var (
	ruleColor   = canvas.Hex("#a7c7e7")
	marginColor = canvas.Hex("#e88a8a")
)

const ruleWidth = 1.2

// Generate 使用 canvas 绘制一张横线纸，画布单位即像素。
func Generate(width, height int, rules Rules) *image.RGBA {
	w, h := float64(width), float64(height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeWidth(ruleWidth)
	if rules.Spacing > 0 {
		ctx.SetStrokeColor(ruleColor)
		start := math.Mod(rules.Top, rules.Spacing)
		for y := start; y < h; y += rules.Spacing {
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(w, 0)
			ctx.DrawPath(0, y, p)
		}
	}
	if rules.Margin > 0 {
		ctx.SetStrokeColor(marginColor)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(0, h)
		ctx.DrawPath(rules.Margin, 0, p)
	}

	return Flatten(rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace))
}
