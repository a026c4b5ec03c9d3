// Package tencentsmart 腾讯交互翻译（TranSmart）适配器，无需凭据
package tencentsmart

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
	Name = "tencent-smart"
	// DefaultEndpoint 默认接口地址
	DefaultEndpoint = "https://transmart.qq.com/api/imt"
	// DefaultClientKey 浏览器端使用的客户端标识
	DefaultClientKey = "browser-chrome-110.0.0-Mac OS-df4bd4c5-a65d-44b2-a40f-42f34f3535f2-1677486696487"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"
	referer   = "https://transmart.qq.com/zh-CN/index"
)

// Table 语言代码表，简繁中文共用 zh
//
// 反查按首个匹配项取 zh-CN，刻意不取后出现的 zh-TW。
var Table = languages.NewTable([]languages.Pair{
	{Canonical: languages.Auto, Native: "auto"},
	{Canonical: languages.ChineseSimplified, Native: "zh"},
	{Canonical: languages.ChineseTraditional, Native: "zh"},
	{Canonical: languages.English, Native: "en"},
	{Canonical: "ar", Native: "ar"},
	{Canonical: "de", Native: "de"},
	{Canonical: "ru", Native: "ru"},
	{Canonical: "fr", Native: "fr"},
	{Canonical: "fil", Native: "fil"},
	{Canonical: languages.Korean, Native: "ko"},
	{Canonical: "ms", Native: "ms"},
	{Canonical: "pt", Native: "pt"},
	{Canonical: languages.Japanese, Native: "ja"},
	{Canonical: "th", Native: "th"},
	{Canonical: "tr", Native: "tr"},
	{Canonical: "es", Native: "es"},
	{Canonical: "it", Native: "it"},
	{Canonical: "hi", Native: "hi"},
	{Canonical: "id", Native: "id"},
	{Canonical: "vi", Native: "vi"},
})

// Codes header.ret_code 映射，succ 表示成功
var Codes = translator.CodeTable[string]{
	"error": translator.ErrAPIServer,
}

// Config 腾讯交互翻译配置
type Config struct {
	providers.BaseConfig `mapstructure:",squash"`
	ClientKey            string `json:"client_key" mapstructure:"client_key"`
}

// Provider 腾讯交互翻译提供商
type Provider struct {
	config Config
	signer signer.Signer
	opts   providers.Options
}

var _ providers.Provider = (*Provider)(nil)

// New 创建腾讯交互翻译提供商
func New(config Config, opts ...providers.Option) *Provider {
	if config.ClientKey == "" {
		config.ClientKey = DefaultClientKey
	}
	return &Provider{
		config: config,
		signer: signer.Nop{},
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
		Name:               Name,
		Auth:               "none",
		SupportedLanguages: Table.Supported(),
		DetectsSource:      true,
	}
}

type header struct {
	Fn        string `json:"fn"`
	ClientKey string `json:"client_key"`
}

type side struct {
	TextList []string `json:"text_list,omitempty"`
	Lang     string   `json:"lang"`
}

type request struct {
	Header        header `json:"header"`
	Type          string `json:"type"`
	ModelCategory string `json:"model_category"`
	Source        side   `json:"source"`
	Target        side   `json:"target"`
}

type response struct {
	Header struct {
		Type    string `json:"type"`
		RetCode string `json:"ret_code"`
		Time    int64  `json:"time_cost"`
	} `json:"header"`
	AutoTranslation []string `json:"auto_translation"`
	SrcLang         string   `json:"src_lang"`
	TgtLang         string   `json:"tgt_lang"`
}

// Query 执行翻译
func (p *Provider) Query(ctx context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	payload, err := json.Marshal(request{
		Header:        header{Fn: "auto_translation", ClientKey: p.config.ClientKey},
		Type:          "plain",
		ModelCategory: "normal",
		Source: side{
			TextList: []string{text},
			Lang:     Table.ToProviderOr(from, "auto"),
		},
		Target: side{
			Lang: Table.ToProviderOr(to, "auto"),
		},
	})
	if err != nil {
		return nil, translator.WrapError(translator.ErrUnknown, "encode request", err)
	}

	req := transport.NewRequest(http.MethodPost, p.config.EndpointOr(DefaultEndpoint))
	req.SetHeader("Content-Type", "application/json")
	req.SetHeader("User-Agent", userAgent)
	req.SetHeader("referer", referer)
	providers.ApplyHeaders(req, p.config.Headers)
	req.Body = payload

	if err := p.signer.Sign(req, p.opts.Clock()); err != nil {
		return nil, providers.SignError(err)
	}

	resp, err := p.opts.Transport.Send(ctx, req)
	if err != nil {
		return nil, translator.FromTransport(err, translator.DefaultStatusTable)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, providers.DecodeError(err)
	}
	if code := body.Header.RetCode; code != "" && code != "succ" {
		return nil, Codes.Error(code)
	}
	if len(body.AutoTranslation) == 0 {
		return nil, translator.NewError(translator.ErrUnknown, "empty translation")
	}

	detected := from
	if lang, ok := Table.ToCanonical(body.SrcLang); ok {
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
			Paragraphs: body.AutoTranslation,
		},
	}, nil
}
