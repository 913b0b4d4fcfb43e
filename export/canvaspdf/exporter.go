package canvaspdf

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/noteworthy/export"
)

// Exporter writes pages through github.com/tdewolff/canvas/renderers/pdf, entirely in memory.
type Exporter struct {
	paper export.PaperSize
}

var _ export.Exporter = (*Exporter)(nil)

// New 创建指定纸张的导出器；零值纸张使用 A4。
func New(paper export.PaperSize) *Exporter {
	if paper.Width <= 0 || paper.Height <= 0 {
		paper = export.A4
	}
	return &Exporter{paper: paper}
}

// Paper 返回纸张尺寸。
func (e *Exporter) Paper() export.PaperSize { return e.paper }

// Export 实现 export.Exporter。
func (e *Exporter) Export(pages []image.Image, meta export.Meta) ([]byte, error) {
	if err := export.CheckPages(pages); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, e.paper.Width, e.paper.Height, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)
	for i, img := range pages {
		if i > 0 {
			writer.NewPage(e.paper.Width, e.paper.Height)
		}
		c := canvas.New(e.paper.Width, e.paper.Height)
		ctx := canvas.NewContext(c)
		e.drawPage(ctx, img)
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawPage 以 1px = 1 单位放置图像，再按纸张与图像的比例分别缩放 x/y，使其铺满整页。
func (e *Exporter) drawPage(ctx *canvas.Context, img image.Image) {
	b := img.Bounds()
	sx := e.paper.Width / float64(b.Dx())
	sy := e.paper.Height / float64(b.Dy())
	ctx.ComposeView(canvas.Identity.Scale(sx, sy))
	ctx.DrawImage(0, 0, img, canvas.DPMM(1))
}
