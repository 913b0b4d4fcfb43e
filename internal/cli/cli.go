// Package cli 实现 noteworthy 命令行：render 生成 PDF，serve 启动网页外壳，
// layout 输出换行结果，init 写出默认配置。
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/noteworthy/config"
	"github.com/ByLCY/noteworthy/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI 保存各命令共享的状态。
type CLI struct {
	Logger     *log.Logger
	configPath string
	verbose    bool
}

// New 创建 CLI，日志写到 w。
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel 调整日志级别。
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand 创建根命令并注册所有子命令。
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "noteworthy",
		Short:         "把文本排成手写笔记并导出 PDF",
		Long:          `noteworthy 将纯文本按页面宽度贪心折行，用手写字体绘制到白纸或横线纸上，并导出为 A4 PDF。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "配置文件路径（默认读取当前目录的 "+config.DefaultFile+"）")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.initCommand())

	return root
}

// loadConfig 读取配置文件。
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "base_dir", cfg.Assets.BaseDir, "backend", cfg.Export.Backend)
	return cfg, nil
}

// newGenerator 根据配置创建生成器。
func (c *CLI) newGenerator(cfg config.Config, logger *log.Logger) (*pipeline.Generator, error) {
	pcfg, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	return pipeline.NewGenerator(pcfg, cfg.Exporter(), logger), nil
}

// pagePath 在多页输出时为文件名追加页码，例如 notes.png → notes-2.png。
func pagePath(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}
