// Package config 读取 TOML 配置并转换为生成器配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/export/canvaspdf"
	"github.com/ByLCY/noteworthy/export/fpdf"
	"github.com/ByLCY/noteworthy/layout"
	"github.com/ByLCY/noteworthy/pipeline"
)

// DefaultFile 是未指定 --config 时尝试读取的文件。
const DefaultFile = "noteworthy.toml"

// Exporter backends.
const (
	BackendCanvas = "canvas"
	BackendFpdf   = "fpdf"
)

// Config 对应 TOML 文件结构。
type Config struct {
	Assets Assets `toml:"assets"`
	Page   Page   `toml:"page"`
	Export Export `toml:"export"`
	Server Server `toml:"server"`
}

// Assets 描述字体与横线纸的位置。
type Assets struct {
	BaseDir string `toml:"base_dir"`
	Font    string `toml:"font"`
	Ruled   string `toml:"ruled"`
}

// Page 描述页面几何与墨迹。
type Page struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Margin   float64 `toml:"margin"`
	Padding  float64 `toml:"padding"`
	FontSize string  `toml:"font_size"` // 例如 "30px"、"22.5pt"
	InkAlpha float64 `toml:"ink_alpha"`
	Spacing  float64 `toml:"spacing"` // 默认行距
}

// Export 选择导出后端与 PDF 元信息。
type Export struct {
	Backend string `toml:"backend"`
	Title   string `toml:"title"`
	Author  string `toml:"author"`
}

// Server 是 HTTP 外壳的配置。
type Server struct {
	Addr string `toml:"addr"`
}

// Default 返回默认配置。
func Default() Config {
	p := pipeline.DefaultConfig()
	return Config{
		Assets: Assets{Font: p.Font, Ruled: p.Ruled},
		Page: Page{
			Width:    p.Width,
			Height:   p.Height,
			Margin:   p.Margin,
			Padding:  p.Padding,
			FontSize: layout.Length{Value: p.FontSize, Unit: layout.UnitPX}.String(),
			InkAlpha: p.InkAlpha,
			Spacing:  layout.DefaultLineSpacing,
		},
		Export: Export{Backend: BackendCanvas, Title: p.Meta.Title},
		Server: Server{Addr: ":8501"},
	}
}

// Load 读取配置文件并与默认值合并。path 为空时尝试 DefaultFile，文件不存在则直接使用默认值。
// 相对的 base_dir 以配置文件所在目录为基准。
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("配置 %s 含有未知字段: %v", path, undecoded)
	}
	if !filepath.IsAbs(cfg.Assets.BaseDir) {
		cfg.Assets.BaseDir = filepath.Join(filepath.Dir(path), cfg.Assets.BaseDir)
	}
	return cfg, cfg.Validate()
}

// Validate 检查配置取值。
func (c Config) Validate() error {
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		return fmt.Errorf("页面尺寸无效: %dx%d", c.Page.Width, c.Page.Height)
	}
	if !(c.Page.Margin >= 0 && 2*c.Page.Margin < float64(c.Page.Width)) {
		return fmt.Errorf("页边距 %g 无效", c.Page.Margin)
	}
	if !(c.Page.Padding >= 0) || math.IsInf(c.Page.Padding, 0) {
		return fmt.Errorf("页面内边距 %g 无效", c.Page.Padding)
	}
	if !(c.Page.InkAlpha > 0 && c.Page.InkAlpha <= 1) {
		return fmt.Errorf("墨迹不透明度 %g 超出 (0, 1]", c.Page.InkAlpha)
	}
	if !layout.ValidLineSpacing(c.Page.Spacing) {
		return fmt.Errorf("默认行距 %g 必须是 [%g, %g] 内的整数", c.Page.Spacing, layout.MinLineSpacing, layout.MaxLineSpacing)
	}
	if _, err := c.fontSize(); err != nil {
		return err
	}
	switch c.Export.Backend {
	case BackendCanvas, BackendFpdf:
	default:
		return fmt.Errorf("未知的导出后端 %q（可选：%s、%s）", c.Export.Backend, BackendCanvas, BackendFpdf)
	}
	return nil
}

func (c Config) fontSize() (float64, error) {
	l, err := layout.ParseLength(c.Page.FontSize)
	if err != nil {
		return 0, fmt.Errorf("字号 %q 无效: %w", c.Page.FontSize, err)
	}
	px := l.ToPX()
	if !(px > 0) || math.IsInf(px, 0) {
		return 0, fmt.Errorf("字号 %s 必须是大于 0 的有限值", l)
	}
	return px, nil
}

// Pipeline 转换为生成器配置。
func (c Config) Pipeline() (pipeline.Config, error) {
	size, err := c.fontSize()
	if err != nil {
		return pipeline.Config{}, err
	}
	p := pipeline.DefaultConfig()
	p.BaseDir = c.Assets.BaseDir
	p.Font = c.Assets.Font
	p.Ruled = c.Assets.Ruled
	p.FontSize = size
	p.InkAlpha = c.Page.InkAlpha
	p.Width = c.Page.Width
	p.Height = c.Page.Height
	p.Margin = c.Page.Margin
	p.Padding = c.Page.Padding
	p.Meta.Title = c.Export.Title
	p.Meta.Author = c.Export.Author
	return p, nil
}

// Exporter 根据配置创建导出器。
func (c Config) Exporter() export.Exporter {
	if c.Export.Backend == BackendFpdf {
		return fpdf.New(export.A4)
	}
	return canvaspdf.New(export.A4)
}

// Write 将配置写为 TOML，便于生成示例文件。
func (c Config) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
