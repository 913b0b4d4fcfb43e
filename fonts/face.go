package fonts

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Face 是基于 golang.org/x/image 的字形度量后端，宽度取墨迹包围盒的水平跨度（px）。
type Face struct {
	face font.Face
}

// NewFace 解析字体数据并以 72 DPI 创建指定像素大小的字体面。
func NewFace(data []byte, sizePx float64) (*Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 %.1fpx 字体面失败: %w", sizePx, err)
	}
	return &Face{face: face}, nil
}

// TextWidth 实现 layout.Measurer。
func (f *Face) TextWidth(s string) float64 {
	bounds, _ := font.BoundString(f.face, s)
	w := bounds.Max.X - bounds.Min.X
	if w < 0 {
		return 0
	}
	return float64(w) / 64
}

// Close 释放字体面。
func (f *Face) Close() error { return f.face.Close() }
