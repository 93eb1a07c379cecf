// Command restoration 预览和导出 "The Cycle of Restoration" 落地页
//
// 不带子命令运行时打开预览窗口：
//
//	restoration                          # 预览上次查看的变体
//	restoration preview --variant wealphy
//	restoration preview --content-dir data   # 编辑 YAML 时自动重新加载
//	restoration export --out dist
//	restoration outline --variant wealthy
//	restoration fields --variant wealthy --section top --seed 7
package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gonewx/restoration/pkg/app"
	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/embedded"
)

var (
	// 全局参数
	verbose    bool
	contentDir string

	// preview 参数
	previewVariant string
	noSave         bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "restoration",
	Short: "The Cycle of Restoration landing page previewer",
	Long: `Renders the landing page variants of "The Cycle of Restoration" with their
ambient particle fields, and exports them as static HTML.

Run without a subcommand to open the preview window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPreview,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Open a landing page variant in a window",
	Long: `Opens the preview window.

Keys:
  V        next variant
  R        regenerate particle fields
  M        toggle reduced motion
  F11      toggle fullscreen
  Wheel, arrows, PageUp/PageDown, Space, Home/End: scroll`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content-dir", "", "Read content from this directory instead of the embedded copy")

	for _, c := range []*cobra.Command{rootCmd, previewCmd} {
		c.Flags().StringVar(&previewVariant, "variant", "", "Variant to open (default: last viewed)")
		c.Flags().BoolVar(&noSave, "no-save", false, "Do not read or write viewer settings")
	}

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(fieldsCmd)
}

func main() {
	embedded.Init(dataFS)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runPreview 打开预览窗口，窗口关闭后保存设置
func runPreview(cmd *cobra.Command, args []string) error {
	a, err := app.NewApp(app.Config{
		Variant:        previewVariant,
		ContentDir:     contentDir,
		DisableStorage: noSave,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(a.WindowTitle())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	if a.Settings().GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	logger.Info("starting preview", zap.String("title", a.WindowTitle()))
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("preview stopped: %w", err)
	}
	return nil
}

// loadContent 读取嵌入内容或 --content-dir 指定的目录
func loadContent() (*config.Content, error) {
	fsys, err := embedded.ContentOrDir(contentDir)
	if err != nil {
		return nil, err
	}
	return config.LoadContent(fsys)
}
