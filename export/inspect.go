package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

var (
	mediaBoxPattern  = regexp.MustCompile(`/MediaBox\s*\[\s*0\s+0\s+([0-9.]+)\s+([0-9.]+)\s*\]`)
	pageCountPattern = regexp.MustCompile(`/Type\s*/Pages\b[^>]*?/Count\s+(\d+)|/Count\s+(\d+)[^>]*?/Type\s*/Pages\b`)
)

// Info 是从 PDF 中粗略读出的页面信息（尺寸为毫米）。
type Info struct {
	Pages  int
	Width  float64
	Height float64
}

// Inspect 读取第一个 MediaBox 与页数，仅用于日志与自检，不是完整的 PDF 解析器。
func Inspect(data []byte) (Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, fmt.Errorf("不是 PDF 数据")
	}
	box := mediaBoxPattern.FindSubmatch(data)
	if box == nil {
		return Info{}, fmt.Errorf("PDF 中缺少 MediaBox")
	}
	w, err := strconv.ParseFloat(string(box[1]), 64)
	if err != nil {
		return Info{}, fmt.Errorf("MediaBox 宽度无效: %w", err)
	}
	h, err := strconv.ParseFloat(string(box[2]), 64)
	if err != nil {
		return Info{}, fmt.Errorf("MediaBox 高度无效: %w", err)
	}
	info := Info{Width: w * ptToMm, Height: h * ptToMm}
	if m := pageCountPattern.FindSubmatch(data); m != nil {
		n := m[1]
		if len(n) == 0 {
			n = m[2]
		}
		info.Pages, _ = strconv.Atoi(string(n))
	}
	return info, nil
}

const ptToMm = 25.4 / 72
