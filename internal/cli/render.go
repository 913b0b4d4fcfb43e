package cli

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/noteworthy/binding"
	"github.com/ByLCY/noteworthy/dsl"
	"github.com/ByLCY/noteworthy/errs"
	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/layout"
	"github.com/ByLCY/noteworthy/pipeline"
)

// renderOpts 对应 render 命令的参数。
type renderOpts struct {
	text    string  // 直接给出的文本
	input   string  // 文本文件，"-" 表示标准输入
	script  string  // 笔记脚本
	ruled   bool    // 使用横线纸
	spacing float64 // 行距，0 表示取配置中的默认值
	output  string  // PDF 输出路径
	png     string  // 额外输出页面 PNG
	debug   string  // 输出换行结果 JSON
	data    string  // 占位符数据文件（JSON 或 TOML）
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "生成手写笔记 PDF",
		Long: `从 --text、--in 或 --script 读取内容，生成手写笔记 PDF。

--script 读取笔记脚本，每个 page 段落生成一页。`,
		Example: `  noteworthy render --text "Hello world" --out notes.pdf
  noteworthy render --in lecture.txt --ruled --spacing 45
  noteworthy render --script examples/lecture.notes --png preview.png
  noteworthy render --in letter.txt --data people.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("spacing") && opts.spacing == 0 {
				return errs.New(errs.CodeInvalidInput, "行距不能为 0")
			}
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "要书写的文本")
	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "文本文件路径（- 表示标准输入）")
	cmd.Flags().StringVarP(&opts.script, "script", "s", "", "笔记脚本路径")
	cmd.Flags().BoolVar(&opts.ruled, "ruled", false, "使用横线纸背景")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", 0, fmt.Sprintf("行距 %g-%g（默认取配置）", layout.MinLineSpacing, layout.MaxLineSpacing))
	cmd.Flags().StringVarP(&opts.output, "out", "o", export.FileName, "PDF 输出路径")
	cmd.Flags().StringVar(&opts.png, "png", "", "同时输出页面 PNG")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "换行调试 JSON 输出路径")
	cmd.Flags().StringVar(&opts.data, "data", "", "替换 ${path} 占位符的数据文件（.json 或 .toml）")
	cmd.MarkFlagsMutuallyExclusive("text", "in", "script")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	gen, err := c.newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	spacing := opts.spacing
	if spacing == 0 {
		spacing = cfg.Page.Spacing
	}

	var (
		reqs []pipeline.Request
		meta = gen.Config.Meta
	)
	if opts.script != "" {
		script, err := loadScript(opts.script, dsl.Defaults{Spacing: spacing, Ruled: opts.ruled, Meta: meta})
		if err != nil {
			return err
		}
		reqs, meta = script.Pages, script.Meta
		logger.Debug("script resolved", "path", opts.script, "pages", len(reqs))
	} else {
		text, err := readText(cmd.InOrStdin(), opts.text, opts.input)
		if err != nil {
			return err
		}
		reqs = []pipeline.Request{{Text: text, Ruled: opts.ruled, LineSpacing: spacing}}
	}

	if opts.data != "" {
		data, err := binding.Load(opts.data)
		if err != nil {
			return errs.Wrap(errs.CodeInvalidInput, err, "无法读取数据文件")
		}
		for i := range reqs {
			reqs[i].Text = data.Interpolate(reqs[i].Text)
		}
		meta.Title = data.Interpolate(meta.Title)
		meta.Author = data.Interpolate(meta.Author)
		meta.Subject = data.Interpolate(meta.Subject)
	}

	prog := newProgress(logger)
	resp, err := gen.GeneratePages(reqs, meta)
	if err != nil {
		return err
	}

	if err := writeFile(opts.output, resp.PDF); err != nil {
		return err
	}
	if info, err := export.Inspect(resp.PDF); err != nil {
		logger.Warn("pdf self-check failed", "path", opts.output, "err", err)
	} else {
		logger.Debug("pdf written", "path", opts.output, "pages", info.Pages, "width_mm", info.Width, "height_mm", info.Height)
	}
	if opts.png != "" {
		if err := writePNGs(opts.png, resp.Pages); err != nil {
			return err
		}
	}
	if opts.debug != "" {
		if err := writeDebug(opts.debug, resp.Pages); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("已生成 PDF：%s，共 %d 页", opts.output, len(resp.Pages)))
	return nil
}

// readText 按优先级读取文本：--text，其次 --in（"-" 为标准输入）。
func readText(stdin io.Reader, text, input string) (string, error) {
	switch input {
	case "":
		return text, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return "", errs.Wrap(errs.CodeFileNotFound, err, "无法读取文本文件 %s", input)
		}
		return string(data), nil
	}
}

func loadScript(path string, defaults dsl.Defaults) (*dsl.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeFileNotFound, err, "无法打开脚本 %s", path)
	}
	defer f.Close()

	doc, err := dsl.Parse(f)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "解析脚本失败")
	}
	script, err := dsl.Resolve(doc, defaults)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "脚本内容无效")
	}
	return script, nil
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

func writePNGs(path string, pages []pipeline.Page) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	for i, page := range pages {
		name := pagePath(path, i, len(pages))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("创建 PNG 文件失败: %w", err)
		}
		if err := png.Encode(f, page.Image); err != nil {
			f.Close()
			return fmt.Errorf("编码 PNG 失败: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeDebug(path string, pages []pipeline.Page) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	for i, page := range pages {
		if err := layout.WriteDebugJSON(page.Layout, pagePath(path, i, len(pages))); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
