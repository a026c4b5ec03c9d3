// Package volc 火山引擎机器翻译适配器
package volc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

const (
	// Name 提供商名称
	Name = "volc"
	// DefaultEndpoint 默认接口地址
	DefaultEndpoint = "https://open.volcengineapi.com"
	// DefaultRegion 默认区域
	DefaultRegion = "cn-north-1"
	// Service 签名范围中的服务名
	Service = "translate"

	action  = "TranslateText"
	version = "2020-06-01"
)

// Table 语言代码表
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
	{Canonical: languages.ChineseTraditional, Native: "zh-Hant"},
	{Canonical: "vi", Native: "vie"},
})

// Codes 业务错误码映射
// https://www.volcengine.com/docs/4640/65067
var Codes = translator.CodeTable[int]{
	100009: translator.ErrAuth,
	100013: translator.ErrTooManyRequests,
	// 文档未列出，实际在额度耗尽时返回
	100018: translator.ErrUsageLimit,
}

// Config 火山引擎配置
type Config struct {
	providers.BaseConfig `mapstructure:",squash"`
	AccessKeyID          string `json:"access_key_id" mapstructure:"access_key_id"`
	AccessKeySecret      string `json:"access_key_secret" mapstructure:"access_key_secret"`
	Region               string `json:"region" mapstructure:"region"`
}

// Provider 火山引擎提供商
type Provider struct {
	config Config
	signer signer.Signer
	opts   providers.Options
}

var _ providers.Provider = (*Provider)(nil)

// New 创建火山引擎提供商
func New(config Config, opts ...providers.Option) *Provider {
	if config.Region == "" {
		config.Region = DefaultRegion
	}
	return &Provider{
		config: config,
		signer: signer.NewV4Signer(config.AccessKeyID, config.AccessKeySecret, config.Region, Service),
		opts:   providers.NewOptions(opts...),
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
		Auth:                signer.V4Algorithm,
		SupportedLanguages:  Table.Supported(),
		RequiresCredentials: true,
		DetectsSource:       true,
	}
}

type request struct {
	SourceLanguage string   `json:"SourceLanguage,omitempty"`
	TargetLanguage string   `json:"TargetLanguage"`
	TextList       []string `json:"TextList"`
}

type response struct {
	ResponseMetadata struct {
		RequestID string `json:"RequestId"`
		Action    string `json:"Action"`
		Error     *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
			CodeN   int    `json:"CodeN"`
		} `json:"Error"`
	} `json:"ResponseMetadata"`
	TranslationList []struct {
		Translation            string `json:"Translation"`
		DetectedSourceLanguage string `json:"DetectedSourceLanguage"`
		Extra                  any    `json:"Extra"`
	} `json:"TranslationList"`
}

// codeN 返回业务错误码，没有错误时为 0
func (r *response) codeN() int {
	if r.ResponseMetadata.Error == nil {
		return 0
	}
	return r.ResponseMetadata.Error.CodeN
}

// prepare 每次发送前用新的 X-Date 重新签名
func (p *Provider) prepare(req *transport.Request) error {
	return p.signer.Sign(req, p.opts.Clock())
}

// Query 执行翻译
//
// from 为 auto 时不发送 SourceLanguage，由服务端检测。
func (p *Provider) Query(ctx context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	body := request{
		TargetLanguage: Table.ToProvider(to),
		TextList:       []string{text},
	}
	if from != languages.Auto {
		body.SourceLanguage = Table.ToProvider(from)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, translator.WrapError(translator.ErrUnknown, "encode request", err)
	}

	req := transport.NewRequest(http.MethodPost, p.config.EndpointOr(DefaultEndpoint))
	providers.ApplyHeaders(req, p.config.Headers)
	req.SetHeader("Content-Type", "application/json")
	req.Query.Set("Action", action)
	req.Query.Set("Version", version)
	req.Body = payload

	if err := p.prepare(req); err != nil {
		return nil, providers.SignError(err)
	}
	req.Prepare = p.prepare

	resp, err := p.opts.Transport.Send(ctx, req)
	if err != nil {
		if se, ok := transport.AsStatus(err); ok {
			var body response
			if json.Unmarshal(se.Body, &body) == nil && body.codeN() != 0 {
				return nil, Codes.Error(body.codeN())
			}
		}
		return nil, translator.FromTransport(err, translator.DefaultStatusTable)
	}

	var out response
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, providers.DecodeError(err)
	}
	if code := out.codeN(); code != 0 {
		return nil, Codes.Error(code)
	}
	if len(out.TranslationList) == 0 {
		return nil, translator.NewError(translator.ErrUnknown, "empty translation list")
	}

	first := out.TranslationList[0]
	detected := from
	if lang, ok := Table.ToCanonical(first.DetectedSourceLanguage); ok {
		detected = lang
	}

	return &translator.Result{
		Text: text,
		From: detected,
		To:   to,
		Origin: translator.Section{
			Paragraphs: translator.SplitParagraphs(text),
		},
		Trans: translator.Section{
			Paragraphs: []string{first.Translation},
		},
	}, nil
}
