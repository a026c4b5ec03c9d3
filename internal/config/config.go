package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nerdneilsfield/go-translator-services/pkg/providers/aliyun"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/baidu"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/caiyun"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/tencentsmart"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/volc"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// ErrMissingCredential 提供商缺少必要凭据
var ErrMissingCredential = errors.New("missing credential")

// ErrUnknownProvider 配置了不存在的提供商
var ErrUnknownProvider = errors.New("unknown provider")

// KnownProviders 全部提供商名称
var KnownProviders = []string{aliyun.Name, baidu.Name, caiyun.Name, volc.Name, tencentsmart.Name}

// Config 应用配置
type Config struct {
	DefaultProvider string `mapstructure:"default_provider"` // 默认提供商
	SourceLang      string `mapstructure:"source_lang"`      // 默认源语言
	TargetLang      string `mapstructure:"target_lang"`      // 默认目标语言
	Timeout         int    `mapstructure:"timeout"`          // 请求超时（秒）
	MaxRetries      int    `mapstructure:"max_retries"`      // 传输层重试次数
	ProxyURL        string `mapstructure:"proxy_url"`        // HTTP 代理
	Debug           bool   `mapstructure:"debug"`            // 调试日志
	StatsPath       string `mapstructure:"stats_path"`       // 统计文件，留空则不保存

	Providers ProvidersConfig `mapstructure:"providers"`
}

// ProvidersConfig 各提供商的凭据，每个适配器实例单独持有
type ProvidersConfig struct {
	Aliyun       aliyun.Config       `mapstructure:"aliyun"`
	Baidu        baidu.Config        `mapstructure:"baidu"`
	Caiyun       caiyun.Config       `mapstructure:"caiyun"`
	Volc         volc.Config         `mapstructure:"volc"`
	TencentSmart tencentsmart.Config `mapstructure:"tencentsmart"`
}

// LoadConfig 从文件加载配置
//
// 查找顺序：显式路径，否则 $HOME/.translator.yaml 与 ./.translator.yaml。
// 当前目录下的 .env 会先被载入环境变量，TRANSLATOR_ 前缀的环境变量覆盖文件配置。
func LoadConfig(configPath string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 查找家目录中的配置文件
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		// 添加可能的配置文件路径
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".translator")
		v.SetConfigType("yaml")
	}

	// 读取环境变量，providers.baidu.app_id 对应 TRANSLATOR_PROVIDERS_BAIDU_APP_ID
	v.SetEnvPrefix("TRANSLATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		DefaultProvider: tencentsmart.Name,
		SourceLang:      "auto",
		TargetLang:      "zh-CN",
		Timeout:         30,
		MaxRetries:      2,
		Providers: ProvidersConfig{
			Volc: volc.Config{Region: volc.DefaultRegion},
		},
	}
}

// Validate 检查配置是否自洽
func (c *Config) Validate() error {
	if !IsKnownProvider(c.DefaultProvider) {
		return fmt.Errorf("default_provider %q: %w", c.DefaultProvider, ErrUnknownProvider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// CheckCredentials 检查提供商凭据是否齐全
func (c *Config) CheckCredentials(provider string) error {
	missing, err := c.MissingCredentials(provider)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %s: %w", provider, strings.Join(missing, ", "), ErrMissingCredential)
	}
	return nil
}

// MissingCredentials 返回提供商未填写的凭据字段
func (c *Config) MissingCredentials(provider string) ([]string, error) {
	p := c.Providers
	switch provider {
	case aliyun.Name:
		return blank(map[string]string{
			"access_key_id":     p.Aliyun.AccessKeyID,
			"access_key_secret": p.Aliyun.AccessKeySecret,
		}), nil
	case baidu.Name:
		return blank(map[string]string{"app_id": p.Baidu.AppID, "key": p.Baidu.Key}), nil
	case caiyun.Name:
		return blank(map[string]string{"token": p.Caiyun.Token}), nil
	case volc.Name:
		return blank(map[string]string{
			"access_key_id":     p.Volc.AccessKeyID,
			"access_key_secret": p.Volc.AccessKeySecret,
		}), nil
	case tencentsmart.Name:
		return nil, nil
	default:
		return nil, fmt.Errorf("%q: %w", provider, ErrUnknownProvider)
	}
}

// TransportConfig 传输层配置
func (c *Config) TransportConfig() transport.Config {
	tc := transport.DefaultConfig()
	if c.Timeout > 0 {
		tc.Timeout = time.Duration(c.Timeout) * time.Second
	}
	tc.Retry.MaxRetries = c.MaxRetries
	tc.ProxyURL = c.ProxyURL
	return tc
}

// IsKnownProvider 是否为支持的提供商
func IsKnownProvider(name string) bool {
	for _, known := range KnownProviders {
		if known == name {
			return true
		}
	}
	return false
}

// blank 返回值为空的字段名，按字段名排序
func blank(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{"access_key_id", "access_key_secret", "app_id", "key", "token"} {
		if v, ok := fields[name]; ok && v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// setDefaults 设置默认值
//
// 每个键都需要有默认值，AutomaticEnv 才能在 Unmarshal 时覆盖它。
func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("default_provider", d.DefaultProvider)
	v.SetDefault("source_lang", d.SourceLang)
	v.SetDefault("target_lang", d.TargetLang)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("proxy_url", "")
	v.SetDefault("debug", false)
	v.SetDefault("stats_path", "")

	v.SetDefault("providers.aliyun.access_key_id", "")
	v.SetDefault("providers.aliyun.access_key_secret", "")
	v.SetDefault("providers.aliyun.endpoint", "")

	v.SetDefault("providers.baidu.app_id", "")
	v.SetDefault("providers.baidu.key", "")
	v.SetDefault("providers.baidu.endpoint", "")

	v.SetDefault("providers.caiyun.token", "")
	v.SetDefault("providers.caiyun.endpoint", "")

	v.SetDefault("providers.volc.access_key_id", "")
	v.SetDefault("providers.volc.access_key_secret", "")
	v.SetDefault("providers.volc.region", d.Providers.Volc.Region)
	v.SetDefault("providers.volc.endpoint", "")

	v.SetDefault("providers.tencentsmart.client_key", "")
	v.SetDefault("providers.tencentsmart.endpoint", "")
}
