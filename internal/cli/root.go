package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-translator-services/internal/config"
	"github.com/nerdneilsfield/go-translator-services/internal/logger"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/factory"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/stats"
)

// app 子命令共享的运行时状态
type app struct {
	// 命令行标志
	cfgFile   string
	debugMode bool
	provider  string

	config  *config.Config
	log     *zap.Logger
	stats   *stats.StatsManager
	factory *factory.ProviderFactory

	// 测试时替换工厂选项
	factoryOptions []factory.Option
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	return newRootCommand(&app{}, version, commit, buildDate)
}

func newRootCommand(a *app, version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "translator",
		Short: "多服务商机器翻译命令行工具",
		Long: `通过统一的接口调用多家云翻译服务，负责请求签名、语言代码转换以及结果和错误的归一化。

支持的翻译提供商:
  - aliyun: 阿里云机器翻译（HMAC-SHA1 签名）
  - baidu: 百度通用翻译（MD5 签名）
  - caiyun: 彩云小译（令牌鉴权）
  - volc: 火山引擎机器翻译（HMAC-SHA256 派生密钥签名）
  - tencent-smart: 腾讯交互翻译（无需凭据）`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "配置文件路径（默认 $HOME/.translator.yaml）")
	rootCmd.PersistentFlags().BoolVarP(&a.debugMode, "debug", "d", false, "启用调试日志")
	rootCmd.PersistentFlags().StringVarP(&a.provider, "provider", "p", "", "翻译提供商，默认取配置中的 default_provider")

	rootCmd.AddCommand(
		newTranslateCommand(a),
		newLanguagesCommand(a),
		newProvidersCommand(a),
		newStatsCommand(a),
	)

	return rootCmd
}

// init 加载配置并构建日志、统计与工厂
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = a.debugMode
	}
	if a.provider == "" {
		a.provider = cfg.DefaultProvider
	}
	a.config = cfg

	if a.log == nil {
		a.log = logger.NewLogger(cfg.Debug)
	}

	a.stats = stats.NewStatsManager(cfg.StatsPath, a.log)
	if err := a.stats.LoadFromDB(); err != nil {
		a.log.Warn("failed to load stats", zap.Error(err))
	}

	opts := append([]factory.Option{
		factory.WithLogger(a.log),
		factory.WithStats(a.stats),
	}, a.factoryOptions...)
	a.factory = factory.New(cfg, opts...)

	a.log.Debug("config loaded",
		zap.String("provider", a.provider),
		zap.String("stats_path", cfg.StatsPath),
		logger.CredentialSet("aliyun_secret_set", cfg.Providers.Aliyun.AccessKeySecret),
		logger.CredentialSet("baidu_key_set", cfg.Providers.Baidu.Key),
		logger.CredentialSet("caiyun_token_set", cfg.Providers.Caiyun.Token),
		logger.CredentialSet("volc_secret_set", cfg.Providers.Volc.AccessKeySecret))
	return nil
}

// close 保存统计并刷新日志
func (a *app) close() error {
	if a.stats != nil {
		if err := a.stats.SaveToDB(); err != nil {
			a.log.Warn("failed to save stats", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}
