package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-translator-services/pkg/providers/stats"
)

func newStatsCommand(a *app) *cobra.Command {
	var (
		exportPath string
		resetStats bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "查看各提供商的调用统计",
		Long: `查看各提供商的请求次数、成功率、延迟与错误分类。

统计保存在配置项 stats_path 指定的文件中，未配置时只统计当前进程。

示例:
  translator stats
  translator stats --export stats.json
  translator stats --reset`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resetStats {
				return a.resetStats(cmd)
			}

			if exportPath != "" {
				data, err := json.MarshalIndent(a.stats.GetAllStats(), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal stats: %w", err)
				}
				if err := os.WriteFile(exportPath, data, 0o644); err != nil {
					return fmt.Errorf("failed to export stats: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Statistics exported to %s\n", exportPath)
				return nil
			}

			a.stats.RenderTable(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "导出统计到 JSON 文件")
	cmd.Flags().BoolVar(&resetStats, "reset", false, "清空统计")

	return cmd
}

// resetStats 删除统计文件并清空内存中的统计
func (a *app) resetStats(cmd *cobra.Command) error {
	path := a.config.StatsPath
	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stats file: %w", err)
		}
	}
	a.stats = stats.NewStatsManager("", a.log)
	a.log.Debug("stats reset", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), "Statistics reset.")
	return nil
}
