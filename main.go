package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/siliconsim/config"
	"github.com/ByLCY/siliconsim/dsl"
	"github.com/ByLCY/siliconsim/export"
	"github.com/ByLCY/siliconsim/labels"
	"github.com/ByLCY/siliconsim/layout"
	"github.com/ByLCY/siliconsim/logging"
	"github.com/ByLCY/siliconsim/renderer"
	canvasrenderer "github.com/ByLCY/siliconsim/renderer/canvas"
	"github.com/ByLCY/siliconsim/session"
	"github.com/ByLCY/siliconsim/tui"
)

func main() {
	var opts runOptions
	flag.StringVar(&opts.configPath, "config", "", "配置文件路径（TOML）")
	flag.StringVar(&opts.script, "script", "", "无界面运行的制造脚本路径")
	flag.StringVar(&opts.output, "out", "", "芯片 PNG 输出目录（覆盖配置）")
	flag.StringVar(&opts.locale, "locale", "", "界面语言 ENG 或 CHN（覆盖配置）")
	flag.StringVar(&opts.debug, "debug", "", "芯片场景调试 JSON 输出路径")
	flag.Parse()

	saved, err := run(opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	for _, path := range saved {
		fmt.Printf("已生成芯片：%s\n", path)
	}
}

type runOptions struct {
	configPath string
	script     string
	output     string
	locale     string
	debug      string
}

// run 串联配置、日志、渲染器与会话，返回脚本模式下写出的文件路径。
// 日志在 run 返回前关闭。
func run(opts runOptions) ([]string, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if opts.output != "" {
		cfg.OutputDir = opts.output
	}
	if opts.locale != "" {
		cfg.Locale = opts.locale
	}

	logger, err := logging.New(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("打开日志失败: %w", err)
	}
	defer logger.Close()

	r, err := newRenderer(cfg)
	if err != nil {
		logger.Printf("renderer: %v", err)
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	sess, err := newSession(cfg, r, logger)
	if err != nil {
		return nil, fmt.Errorf("创建会话失败: %w", err)
	}

	var saved []string
	if opts.script != "" {
		if saved, err = runScript(sess, opts.script, cfg.OutputDir); err != nil {
			return saved, fmt.Errorf("执行脚本失败: %w", err)
		}
	} else if err := tui.Run(sess, tui.WithOutputDir(cfg.OutputDir)); err != nil {
		return nil, fmt.Errorf("界面异常退出: %w", err)
	}

	if opts.debug != "" {
		if err := writeDebug(layout.Chip(sess.Engraving()), opts.debug); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// newRenderer 按配置创建渲染器；fonts.engraving 非空时替换刻字字体。
func newRenderer(cfg config.Config) (*canvasrenderer.Renderer, error) {
	var opts canvasrenderer.Options
	if cfg.Fonts.Engraving != "" {
		opts.Fonts = map[string]canvasrenderer.Resource{
			layout.FontEngraving: {Path: cfg.Fonts.Engraving},
		}
	}
	return canvasrenderer.NewRendererWithOptions(opts)
}

// newSession 按配置组装一个会话。
func newSession(cfg config.Config, r renderer.Renderer, logger *logging.Logger) (*session.Session, error) {
	tbl, err := labels.Load(cfg.Locale)
	if err != nil {
		return nil, err
	}
	return session.New(
		session.WithLabels(tbl),
		session.WithRenderer(r),
		session.WithLogger(logger),
		session.WithInitialSize(cfg.Grid.InitialSize),
		session.WithExit(func() { logger.Printf("navigation: leave simulator") }),
	)
}

// runScript 串联解析、回放与保存，返回写出的文件路径。
func runScript(sess *session.Session, scriptPath, outDir string) ([]string, error) {
	file, err := os.Open(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开脚本 %s: %w", scriptPath, err)
	}
	defer file.Close()

	script, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败: %w", err)
	}

	var saved []string
	err = dsl.Run(sess, script, func(a export.Artifact) error {
		path, err := export.Save(outDir, a)
		if err != nil {
			return err
		}
		saved = append(saved, path)
		return nil
	})
	return saved, err
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
