package fpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	gofpdf "codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/noteworthy/export"
)

// Exporter builds the document with codeberg.org/go-pdf/fpdf. Images are registered from memory,
// so no temporary files are involved.
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

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: e.paper.Width, Ht: e.paper.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range pages {
		var encoded bytes.Buffer
		if err := png.Encode(&encoded, img); err != nil {
			return nil, fmt.Errorf("编码第 %d 页图像失败: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		doc.RegisterImageOptionsReader(name, opts, &encoded)
		doc.AddPage()
		doc.ImageOptions(name, 0, 0, e.paper.Width, e.paper.Height, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}
