package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gonewx/restoration/pkg/config"
	"github.com/gonewx/restoration/pkg/export"
)

var (
	exportOut      string
	exportVariants []string
)

// exportCmd 把变体导出为静态 HTML
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export landing page variants as static HTML",
	Long: `Writes <out>/<variant>/index.html for every selected variant and an
<out>/index.html that links them. Particle fields are sampled once per export.

Example:
  restoration export --out dist
  restoration export --out dist --variant wealthy`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "dist", "Output directory")
	exportCmd.Flags().StringSliceVar(&exportVariants, "variant", nil, "Variant to export, repeatable (default: all)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	content, err := loadContent()
	if err != nil {
		return err
	}
	sites, err := selectSites(content, exportVariants)
	if err != nil {
		return err
	}

	e := &export.Exporter{Icons: content.Icons, Logger: logger}
	if err := e.ExportAll(ctx, exportOut, sites...); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			logger.Warn("export interrupted")
		}
		return err
	}

	abs, _ := filepath.Abs(exportOut)
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d variant(s) to %s\n", len(sites), abs)
	logger.Debug("export finished", zap.String("out", abs))
	return nil
}

// selectSites 返回指定变体的内容记录，ids 为空时返回全部变体
func selectSites(content *config.Content, ids []string) ([]*config.SiteConfig, error) {
	if len(ids) == 0 {
		ids = content.Variants.IDs()
	}
	sites := make([]*config.SiteConfig, 0, len(ids))
	for _, id := range ids {
		site, err := content.Site(id)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}
