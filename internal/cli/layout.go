package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/noteworthy/errs"
	"github.com/ByLCY/noteworthy/fonts"
	"github.com/ByLCY/noteworthy/layout"
	"github.com/ByLCY/noteworthy/pipeline"
)

// 字形度量后端。
const (
	metricsCanvas   = "canvas"
	metricsOpenType = "opentype"
)

// newMeasurer 创建换行使用的度量器。opentype 走 golang.org/x/image，便于与 canvas 的结果对照。
func newMeasurer(kind string, pcfg pipeline.Config) (layout.Measurer, func(), error) {
	switch kind {
	case metricsCanvas:
		r, err := pcfg.Renderer()
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	case metricsOpenType:
		data, err := fonts.Load(pcfg.Font, pcfg.BaseDir)
		if err != nil {
			return nil, nil, errs.Wrap(errs.CodeFileNotFound, err, "无法加载手写字体")
		}
		face, err := fonts.NewFace(data, pcfg.FontSize)
		if err != nil {
			return nil, nil, errs.Wrap(errs.CodeInvalidAsset, err, "无法解析手写字体")
		}
		return face, func() { _ = face.Close() }, nil
	default:
		return nil, nil, errs.New(errs.CodeInvalidInput, "未知的度量后端 %q（可选：%s、%s）", kind, metricsCanvas, metricsOpenType)
	}
}

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		text    string
		input   string
		spacing float64
		metrics string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "输出换行结果 JSON，不绘制页面",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if spacing == 0 {
				spacing = cfg.Page.Spacing
			}
			if err := (pipeline.Request{LineSpacing: spacing}).Validate(); err != nil {
				return err
			}
			pcfg, err := cfg.Pipeline()
			if err != nil {
				return err
			}
			body, err := readText(cmd.InOrStdin(), text, input)
			if err != nil {
				return err
			}
			m, closeFn, err := newMeasurer(metrics, pcfg)
			if err != nil {
				return err
			}
			defer closeFn()
			res := layout.Wrap(body, m, pcfg.Geometry(spacing))
			if res.Overflow() {
				loggerFromContext(cmd.Context()).Warn("text runs past the bottom of the page", "cursor", res.CursorY)
			}
			if err := layout.EncodeJSON(cmd.OutOrStdout(), res); err != nil {
				return fmt.Errorf("输出 JSON 失败: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "要排版的文本")
	cmd.Flags().StringVarP(&input, "in", "i", "", "文本文件路径（- 表示标准输入）")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "行距（默认取配置）")
	cmd.Flags().StringVar(&metrics, "metrics", metricsCanvas, "字形度量后端：canvas 或 opentype")
	cmd.MarkFlagsMutuallyExclusive("text", "in")
	return cmd
}
