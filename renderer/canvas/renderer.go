package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/noteworthy/errs"
	"github.com/ByLCY/noteworthy/fonts"
	"github.com/ByLCY/noteworthy/layout"
	"github.com/ByLCY/noteworthy/paper"
	"github.com/ByLCY/noteworthy/renderer"
)

// 默认墨迹：黑色，80% 不透明度。
const (
	DefaultFontSize = 30.0
	DefaultInkAlpha = 0.8
)

// Renderer draws placements via github.com/tdewolff/canvas, one alpha-blended overlay per line.
// Canvas units are page pixels.
type Renderer struct {
	face  *canvas.FontFace
	alpha float64
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir  string  // 相对字体路径的根目录
	Font     string  // 字体来源：文件路径或 embed:<name>
	FontSize float64 // 字号（px），<=0 时使用 DefaultFontSize
	Ink      color.Color
	InkAlpha float64 // 0-1，<=0 时使用 DefaultInkAlpha
}

// NewRenderer 加载字体并创建渲染器。字体加载失败直接返回错误，不使用后备字体。
func NewRenderer(opts Options) (*Renderer, error) {
	size := opts.FontSize
	if !(size > 0) || math.IsInf(size, 0) {
		size = DefaultFontSize
	}
	alpha := opts.InkAlpha
	if !(alpha > 0 && alpha <= 1) {
		alpha = DefaultInkAlpha
	}

	data, err := fonts.Load(opts.Font, opts.BaseDir)
	if err != nil {
		return nil, errs.Wrap(errs.CodeFileNotFound, err, "加载手写字体失败")
	}
	family := canvas.NewFontFamily("handwriting")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, errs.Wrap(errs.CodeInvalidAsset, err, "解析手写字体 %s 失败", opts.Font)
	}

	face := family.Face(toPt(size), inkColor(opts.Ink, alpha), canvas.FontRegular, canvas.FontNormal)
	return &Renderer{face: face, alpha: alpha}, nil
}

// TextWidth 实现 layout.Measurer，返回文本宽度（px）。
func (r *Renderer) TextWidth(s string) float64 {
	return r.face.TextWidth(s)
}

// Ascent 返回字体上升部（px），行顶部加上它即为基线。
func (r *Renderer) Ascent() float64 {
	return r.face.Metrics().Ascent
}

// Draw 按顺序把每一行绘制到独立的透明图层，再以 over 合成到画布上。
// 每行合成后立即压平为不透明图像，因此透明度只作用一次，不会在行间叠加。
func (r *Renderer) Draw(base image.Image, result *layout.Result) (*image.RGBA, error) {
	if base == nil {
		return nil, fmt.Errorf("背景画布为空")
	}
	if result == nil {
		return nil, fmt.Errorf("换行结果为空")
	}

	page := paper.Flatten(base)
	width, height := page.Bounds().Dx(), page.Bounds().Dy()
	for _, p := range result.Placements {
		// 空行不产生墨迹
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		overlay := r.overlay(width, height, p)
		draw.Draw(page, page.Bounds(), overlay, image.Point{}, draw.Over)
		flatten(page)
	}
	return page, nil
}

// overlay 在与画布同尺寸的透明图层上绘制一行文本。
func (r *Renderer) overlay(width, height int, p layout.Placement) *image.RGBA {
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	line := canvas.NewTextLine(r.face, p.Text, canvas.Left)
	ctx.DrawText(p.X, p.Y+r.Ascent(), line)

	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	// 浮点尺寸取整可能多出一像素，裁回画布大小
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// flatten 将残留的半透明像素合成到白底上（预乘 alpha）。
func flatten(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0xff {
			continue
		}
		rest := 0xff - a
		pix[i] += rest
		pix[i+1] += rest
		pix[i+2] += rest
		pix[i+3] = 0xff
	}
}

func inkColor(c color.Color, alpha float64) color.Color {
	if c == nil {
		c = color.Black
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return canvas.RGBA(float64(nc.R)/255, float64(nc.G)/255, float64(nc.B)/255, alpha)
}

// toPt 将画布单位换算为 canvas 字号所需的 pt（canvas 以 mm 为单位，这里 1 单位 = 1px）。
func toPt(px float64) float64 { return px * layout.MmToPt }
