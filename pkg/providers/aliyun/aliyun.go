// Package aliyun 阿里云机器翻译适配器
package aliyun

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

const (
	// Name 提供商名称
	Name = "aliyun"
	// DefaultEndpoint 默认接口地址
	DefaultEndpoint = "https://mt.aliyuncs.com"

	// TimestampFormat ISO8601 UTC
	TimestampFormat = "2006-01-02T15:04:05Z"
)

// Table 语言代码表
// https://help.aliyun.com/zh/machine-translation/support/supported-languages-and-codes
var Table = languages.NewTable([]languages.Pair{
	{Canonical: languages.Auto, Native: "auto"},
	{Canonical: languages.ChineseSimplified, Native: "zh"},
	{Canonical: languages.English, Native: "en"},
	{Canonical: languages.Cantonese, Native: "yue"},
	{Canonical: languages.ClassicalChinese, Native: "wyw"},
	{Canonical: languages.Japanese, Native: "ja"},
	{Canonical: languages.Korean, Native: "ko"},
	{Canonical: "fr", Native: "fr"},
	{Canonical: "es", Native: "es"},
	{Canonical: "th", Native: "th"},
	{Canonical: "ar", Native: "ar"},
	{Canonical: "ru", Native: "ru"},
	{Canonical: "pt", Native: "pt"},
	{Canonical: "de", Native: "de"},
	{Canonical: "it", Native: "it"},
	{Canonical: "el", Native: "el"},
	{Canonical: "nl", Native: "nl"},
	{Canonical: "pl", Native: "pl"},
	{Canonical: "bg", Native: "bul"},
	{Canonical: "et", Native: "est"},
	{Canonical: "da", Native: "dan"},
	{Canonical: "fi", Native: "fin"},
	{Canonical: "cs", Native: "cs"},
	{Canonical: "ro", Native: "rom"},
	{Canonical: "sl", Native: "slo"},
	{Canonical: "sv", Native: "swe"},
	{Canonical: "hu", Native: "hu"},
	{Canonical: languages.ChineseTraditional, Native: "zh-tw"},
	{Canonical: "vi", Native: "vie"},
})

// Codes 业务错误码映射
var Codes = translator.CodeTable[string]{
	"InvalidAccessKeyId.NotFound": translator.ErrAuth,
	"SignatureNonceUsed":          translator.ErrAuth,
	// 上游文档把欠费列了两次，含义相同
	"Account.Arrearage": translator.ErrUsageLimit,
}

// Config 阿里云配置
type Config struct {
	providers.BaseConfig `mapstructure:",squash"`
	AccessKeyID          string `json:"access_key_id" mapstructure:"access_key_id"`
	AccessKeySecret      string `json:"access_key_secret" mapstructure:"access_key_secret"`
}

// Provider 阿里云提供商
type Provider struct {
	config Config
	signer signer.Signer
	opts   providers.Options
	nonce  func() string
}

var _ providers.Provider = (*Provider)(nil)

// New 创建阿里云提供商
func New(config Config, opts ...providers.Option) *Provider {
	return &Provider{
		config: config,
		signer: signer.NewQuerySigner(config.AccessKeySecret),
		opts:   providers.NewOptions(opts...),
		nonce:  uuid.NewString,
	}
}

// Name 提供商名称
func (p *Provider) Name() string {
	return Name
}

// SupportedLanguages 支持的语言
func (p *Provider) SupportedLanguages() []languages.Language {
	return Table.Supported()
}

// Capabilities 获取提供商能力
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		Name:                Name,
		Auth:                "hmac-sha1",
		SupportedLanguages:  Table.Supported(),
		RequiresCredentials: true,
	}
}

type response struct {
	RequestID string         `json:"RequestId"`
	Code      providers.Code `json:"Code"`
	Message   string         `json:"Message"`
	Data      struct {
		WordCount  string `json:"WordCount"`
		Translated string `json:"Translated"`
	} `json:"Data"`
}

// prepare 写入新的 nonce 与时间戳后签名，每次发送都不复用签名
func (p *Provider) prepare(req *transport.Request) error {
	now := p.opts.Clock()
	req.Query.Set("SignatureNonce", p.nonce())
	req.Query.Set("Timestamp", now.UTC().Format(TimestampFormat))
	return p.signer.Sign(req, now)
}

// Query 执行翻译
func (p *Provider) Query(ctx context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	req := transport.NewRequest(http.MethodPost, p.config.EndpointOr(DefaultEndpoint))
	providers.ApplyHeaders(req, p.config.Headers)
	req.SetHeader("Content-Type", "application/x-www-form-urlencoded")

	req.Query.Set("Action", "TranslateGeneral")
	req.Query.Set("Version", "2018-10-12")
	req.Query.Set("Format", "JSON")
	req.Query.Set("AccessKeyId", p.config.AccessKeyID)
	req.Query.Set("SignatureMethod", "HMAC-SHA1")
	req.Query.Set("SignatureVersion", "1.0")

	form := url.Values{}
	form.Set("FormatType", "text")
	form.Set("Scene", "general")
	form.Set("SourceLanguage", Table.ToProvider(from))
	form.Set("TargetLanguage", Table.ToProvider(to))
	form.Set("SourceText", text)
	req.Body = []byte(form.Encode())

	if err := p.prepare(req); err != nil {
		return nil, providers.SignError(err)
	}
	req.Prepare = p.prepare

	resp, err := p.opts.Transport.Send(ctx, req)
	if err != nil {
		if se, ok := transport.AsStatus(err); ok {
			var body response
			if json.Unmarshal(se.Body, &body) == nil && body.Code != "" {
				return nil, Codes.Error(string(body.Code))
			}
		}
		return nil, translator.FromTransport(err, translator.DefaultStatusTable)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, providers.DecodeError(err)
	}
	if body.Code != "200" {
		return nil, Codes.Error(string(body.Code))
	}

	return &translator.Result{
		Text: text,
		From: from,
		To:   to,
		Origin: translator.Section{
			Paragraphs: translator.SplitParagraphs(text),
		},
		Trans: translator.Section{
			Paragraphs: []string{body.Data.Translated},
		},
	}, nil
}
