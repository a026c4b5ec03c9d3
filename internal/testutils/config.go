package testutils

import (
	"github.com/nerdneilsfield/go-translator-services/internal/config"
)

// CreateTestConfig 创建通用测试配置，全部提供商指向同一个模拟服务器并带有假凭据
func CreateTestConfig(endpoint, statsPath string) *config.Config {
	cfg := config.NewDefaultConfig()

	// 基础配置
	cfg.Timeout = 5
	cfg.MaxRetries = 0
	cfg.StatsPath = statsPath

	// 提供商配置
	p := &cfg.Providers
	p.Aliyun.Endpoint = endpoint
	p.Aliyun.AccessKeyID = "test-access-key"
	p.Aliyun.AccessKeySecret = "test-access-secret"

	p.Baidu.Endpoint = endpoint
	p.Baidu.AppID = "20240102000000001"
	p.Baidu.Key = "test-baidu-key"

	p.Caiyun.Endpoint = endpoint
	p.Caiyun.Token = "test-caiyun-token"

	p.Volc.Endpoint = endpoint
	p.Volc.AccessKeyID = "AKLTtest"
	p.Volc.AccessKeySecret = "test-volc-secret"

	p.TencentSmart.Endpoint = endpoint

	return cfg
}
