// Package pipeline 串联换行、绘制与导出，是命令行与 HTTP 外壳共用的纯函数入口。
package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/noteworthy/errs"
	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/export/canvaspdf"
	"github.com/ByLCY/noteworthy/layout"
	"github.com/ByLCY/noteworthy/paper"
	canvasrenderer "github.com/ByLCY/noteworthy/renderer/canvas"
)

// Config 是生成器的只读配置，在多次请求间共享。
type Config struct {
	BaseDir  string  // 相对资源路径的根目录
	Font     string  // 手写字体来源
	Ruled    string  // 横线纸图片来源，可为 paper.BuiltinRuled
	FontSize float64 // px
	InkAlpha float64 // 0-1
	Width    int
	Height   int
	Margin   float64
	Padding  float64
	Meta     export.Meta
}

// DefaultConfig 返回与原始工具一致的默认值。
func DefaultConfig() Config {
	return Config{
		Font:     "hand.otf",
		Ruled:    "ruled.png",
		FontSize: canvasrenderer.DefaultFontSize,
		InkAlpha: canvasrenderer.DefaultInkAlpha,
		Width:    int(layout.DefaultPageWidth),
		Height:   int(layout.DefaultPageHeight),
		Margin:   layout.DefaultMargin,
		Padding:  layout.DefaultPadding,
		Meta:     export.Meta{Title: "Handwritten notes", Creator: "noteworthy"},
	}
}

// Request 是一次生成请求，收到后不再修改。
type Request struct {
	Text        string
	Ruled       bool
	LineSpacing float64
}

// Validate 校验请求参数。
func (r Request) Validate() error {
	if !layout.ValidLineSpacing(r.LineSpacing) {
		return errs.New(errs.CodeInvalidInput, "行距 %g 必须是 [%g, %g] 内的整数", r.LineSpacing, layout.MinLineSpacing, layout.MaxLineSpacing)
	}
	return nil
}

// Page 是单页的中间结果。
type Page struct {
	Layout *layout.Result
	Image  *image.RGBA
}

// Response 是生成结果：每页的换行与图像，以及最终 PDF。
type Response struct {
	Pages []Page
	PDF   []byte
	Stats Stats
}

// Stats 记录各阶段耗时。
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
	ExportTime time.Duration
}

// Generator 执行生成流程。除只读配置与日志外不保存任何状态，每次调用独立加载字体与背景。
type Generator struct {
	Config   Config
	Exporter export.Exporter
	Logger   *log.Logger
}

// NewGenerator 创建生成器；exporter 为空时使用 canvas PDF 导出，logger 为空时使用默认日志。
func NewGenerator(cfg Config, exporter export.Exporter, logger *log.Logger) *Generator {
	if exporter == nil {
		exporter = canvaspdf.New(export.A4)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{Config: cfg, Exporter: exporter, Logger: logger}
}

// Generate 生成单页 PDF。
func (g *Generator) Generate(req Request) (*Response, error) {
	return g.GeneratePages([]Request{req}, g.Config.Meta)
}

// GeneratePages 每个请求生成一页，各页独立换行，超出页面的内容不会流向下一页。
func (g *Generator) GeneratePages(reqs []Request, meta export.Meta) (*Response, error) {
	if len(reqs) == 0 {
		return nil, errs.New(errs.CodeInvalidInput, "没有需要生成的页面")
	}
	for i, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
		}
	}

	r, err := g.Config.Renderer()
	if err != nil {
		return nil, err
	}

	resp := &Response{Pages: make([]Page, 0, len(reqs))}
	images := make([]image.Image, 0, len(reqs))
	for i, req := range reqs {
		page, err := g.renderPage(r, req, &resp.Stats)
		if err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
		}
		resp.Pages = append(resp.Pages, page)
		images = append(images, page.Image)
	}

	start := time.Now()
	pdfBytes, err := g.Exporter.Export(images, meta)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, err, "导出 PDF 失败")
	}
	resp.PDF = pdfBytes
	resp.Stats.ExportTime = time.Since(start)

	g.Logger.Info("generated pdf",
		"pages", len(resp.Pages),
		"bytes", len(pdfBytes),
		"layout", resp.Stats.LayoutTime,
		"render", resp.Stats.RenderTime,
		"export", resp.Stats.ExportTime)
	return resp, nil
}

func (g *Generator) renderPage(r *canvasrenderer.Renderer, req Request, stats *Stats) (Page, error) {
	geom := g.Config.Geometry(req.LineSpacing)

	start := time.Now()
	res := layout.Wrap(req.Text, r, geom)
	stats.LayoutTime += time.Since(start)
	g.Logger.Debug("wrapped text", "lines", len(res.Placements), "cursor", res.CursorY)
	if res.Overflow() {
		g.Logger.Warn("text runs past the bottom of the page and will be clipped", "cursor", res.CursorY, "height", geom.Height)
	}

	start = time.Now()
	base, err := paper.Source(req.Ruled, g.Config.Ruled, g.Config.BaseDir, g.Config.Width, g.Config.Height, paper.Rules{
		Top:     geom.Margin + r.Ascent(),
		Spacing: geom.LineSpacing,
		Margin:  geom.Margin - 10,
	})
	if err != nil {
		return Page{}, err
	}
	img, err := r.Draw(base, res)
	if err != nil {
		return Page{}, errs.Wrap(errs.CodeInternal, err, "绘制页面失败")
	}
	stats.RenderTime += time.Since(start)

	return Page{Layout: res, Image: img}, nil
}

// Geometry 返回指定行距下的页面几何。
func (c Config) Geometry(spacing float64) layout.Geometry {
	return layout.Geometry{
		Width:       float64(c.Width),
		Height:      float64(c.Height),
		Margin:      c.Margin,
		Padding:     c.Padding,
		LineSpacing: spacing,
	}
}

// Renderer 按配置加载手写字体并创建页面渲染器。
func (c Config) Renderer() (*canvasrenderer.Renderer, error) {
	return canvasrenderer.NewRenderer(canvasrenderer.Options{
		BaseDir:  c.BaseDir,
		Font:     c.Font,
		FontSize: c.FontSize,
		InkAlpha: c.InkAlpha,
	})
}
