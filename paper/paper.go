// Package paper 提供页面背景：纯白画布、横线纸图片资源，以及内置生成的横线纸。
package paper

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/ByLCY/noteworthy/errs"
)

// BuiltinRuled 是内置横线纸的资源名。
const BuiltinRuled = "builtin:ruled"

// Blank 返回一张不透明的白色画布。
func Blank(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// Ruled 读取横线纸图片并缩放到 width×height。文件缺失或无法解码均返回错误，不会回退到白纸。
func Ruled(path, baseDir string, width, height int) (*image.RGBA, error) {
	if path == "" {
		return nil, errs.New(errs.CodeInvalidInput, "未配置横线纸图片路径")
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeFileNotFound, err, "读取横线纸 %s 失败", path)
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidAsset, err, "解码横线纸 %s 失败", path)
	}
	return Resize(src, width, height), nil
}

// Resize 将图片拉伸到目标尺寸（不保持宽高比），并铺在白底上得到不透明结果。
func Resize(src image.Image, width, height int) *image.RGBA {
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		draw.Draw(scaled, scaled.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	return Flatten(scaled)
}

// Flatten 将图片合成到白底上，返回完全不透明的 RGBA 图像。
func Flatten(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// Source 根据配置选择背景：ruled 为 false 时不访问任何文件。
func Source(ruled bool, src, baseDir string, width, height int, rules Rules) (*image.RGBA, error) {
	if !ruled {
		return Blank(width, height), nil
	}
	if src == BuiltinRuled {
		return Generate(width, height, rules), nil
	}
	img, err := Ruled(src, baseDir, width, height)
	if err != nil {
		return nil, fmt.Errorf("加载背景失败: %w", err)
	}
	return img, nil
}
