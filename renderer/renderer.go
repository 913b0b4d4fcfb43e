package renderer

import (
	"image"

	"github.com/ByLCY/noteworthy/layout"
)

// Renderer 将换行结果绘制到背景画布上，返回不透明的最终图像。
// Renderer 同时提供字形度量，换行与绘制必须使用同一字体面。
type Renderer interface {
	layout.Measurer
	Draw(base image.Image, result *layout.Result) (*image.RGBA, error)
}
