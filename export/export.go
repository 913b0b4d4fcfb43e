// Package export 把渲染好的页面图像封装为 PDF 文档。
package export

import (
	"fmt"
	"image"
)

// 下载时使用的文件名与 MIME 类型。
const (
	FileName = "handwritten_notes.pdf"
	MIMEType = "application/pdf"
)

// PaperSize 以毫米为单位描述纸张。
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

// A4 210mm × 297mm。
var A4 = PaperSize{Name: "A4", Width: 210, Height: 297}

// Meta 保存 PDF 元信息。
type Meta struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords []string
}

// Exporter 将每张图像拉伸铺满一页（不保持宽高比、无页边距），返回 PDF 字节。
type Exporter interface {
	Paper() PaperSize
	Export(pages []image.Image, meta Meta) ([]byte, error)
}

// CheckPages 校验待导出的页面列表。
func CheckPages(pages []image.Image) error {
	if len(pages) == 0 {
		return fmt.Errorf("缺少可导出的页面")
	}
	for i, p := range pages {
		if p == nil || p.Bounds().Empty() {
			return fmt.Errorf("第 %d 页图像为空", i+1)
		}
	}
	return nil
}
