// Package caiyun 彩云小译适配器
package caiyun

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

const (
	// Name 提供商名称
	Name = "caiyun"
	// DefaultEndpoint 默认接口地址
	DefaultEndpoint = "https://api.interpreter.caiyunai.com/v1/translator"
)

// Table 语言代码表
var Table = languages.NewTable([]languages.Pair{
	{Canonical: languages.Auto, Native: "auto"},
	{Canonical: languages.ChineseSimplified, Native: "zh"},
	{Canonical: languages.English, Native: "en"},
	{Canonical: languages.Japanese, Native: "ja"},
})

// Statuses 彩云只通过 HTTP 状态码报告错误
var Statuses = translator.StatusTable{
	http.StatusUnauthorized:        translator.ErrAuth,
	http.StatusInternalServerError: translator.ErrUsageLimit,
}

// Config 彩云配置
type Config struct {
	providers.BaseConfig `mapstructure:",squash"`
	Token                string `json:"token" mapstructure:"token"`
}

// Provider 彩云提供商
type Provider struct {
	config Config
	signer signer.Signer
	opts   providers.Options
	tts    translator.TTS
}

var _ providers.Provider = (*Provider)(nil)

// New 创建彩云提供商
func New(config Config, opts ...providers.Option) *Provider {
	return &Provider{
		config: config,
		signer: signer.NewTokenSigner("x-authorization", "token", config.Token),
		opts:   providers.NewOptions(opts...),
		tts:    translator.NewBaiduTTS(Table),
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
		Auth:                "token",
		SupportedLanguages:  Table.Supported(),
		RequiresCredentials: true,
		DetectsSource:       p.opts.Detector != nil,
		TTS:                 true,
	}
}

type request struct {
	Source    []string `json:"source"`
	TransType string   `json:"trans_type"`
	Detect    bool     `json:"detect"`
}

type response struct {
	Confidence float64  `json:"confidence"`
	Target     []string `json:"target"`
	RC         int      `json:"rc"`
}

// Query 执行翻译
func (p *Provider) Query(ctx context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	detect := from == languages.Auto
	source := translator.SplitParagraphs(text)

	payload, err := json.Marshal(request{
		Source:    source,
		TransType: Table.ToProvider(from) + "2" + Table.ToProvider(to),
		Detect:    detect,
	})
	if err != nil {
		return nil, translator.WrapError(translator.ErrUnknown, "encode request", err)
	}

	req := transport.NewRequest(http.MethodPost, p.config.EndpointOr(DefaultEndpoint))
	providers.ApplyHeaders(req, p.config.Headers)
	req.SetHeader("Content-Type", "application/json")
	req.Body = payload

	if err := p.signer.Sign(req, p.opts.Clock()); err != nil {
		return nil, providers.SignError(err)
	}

	resp, err := p.opts.Transport.Send(ctx, req)
	if err != nil {
		return nil, translator.FromTransport(err, Statuses)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, providers.DecodeError(err)
	}

	result := &translator.Result{
		Text:   text,
		From:   from,
		To:     to,
		Origin: translator.Section{Paragraphs: source},
		Trans:  translator.Section{Paragraphs: body.Target},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if detect && p.opts.Detector != nil {
			lang, err := p.opts.Detector.Detect(gctx, text)
			if err != nil {
				p.opts.Logger.Debug("detect source language failed", zap.String("provider", Name), zap.Error(err))
			} else if languages.IsValid(lang) {
				result.From = lang
			}
		}
		result.Origin.TTS = p.tts.URL(text, result.From)
		return nil
	})
	g.Go(func() error {
		result.Trans.TTS = p.tts.URL(strings.Join(body.Target, " "), to)
		return nil
	})
	_ = g.Wait()

	return result, nil
}
