// Package baidu 百度通用翻译适配器
package baidu

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

const (
	// Name 提供商名称
	Name = "baidu"
	// DefaultEndpoint 默认接口地址
	DefaultEndpoint = "https://api.fanyi.baidu.com/api/trans/vip/translate"
)

// Table 语言代码表
var Table = languages.NewTable([]languages.Pair{
	{Canonical: languages.Auto, Native: "auto"},
	{Canonical: languages.ChineseSimplified, Native: "zh"},
	{Canonical: languages.ChineseTraditional, Native: "cht"},
	{Canonical: languages.English, Native: "en"},
	{Canonical: languages.Cantonese, Native: "yue"},
	{Canonical: languages.ClassicalChinese, Native: "wyw"},
	{Canonical: languages.Japanese, Native: "jp"},
	{Canonical: languages.Korean, Native: "kor"},
	{Canonical: "fr", Native: "fra"},
	{Canonical: "es", Native: "spa"},
	{Canonical: "th", Native: "th"},
	{Canonical: "ar", Native: "ara"},
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
	{Canonical: "vi", Native: "vie"},
})

// Codes 业务错误码映射
// https://api.fanyi.baidu.com/api/trans/product/apidoc#joinFile
var Codes = translator.CodeTable[string]{
	"52001": translator.ErrNetworkTimeout,
	"52002": translator.ErrAPIServer,
	"52003": translator.ErrAuth,
	"54000": translator.ErrAuth,
	"54003": translator.ErrTooManyRequests,
	"54004": translator.ErrUsageLimit,
	"58001": translator.ErrUnsupportedLang,
}

// Config 百度配置
type Config struct {
	providers.BaseConfig `mapstructure:",squash"`
	AppID                string `json:"app_id" mapstructure:"app_id"`
	Key                  string `json:"key" mapstructure:"key"`
}

// Provider 百度提供商
type Provider struct {
	config Config
	signer signer.Signer
	opts   providers.Options
	tts    translator.TTS
}

var _ providers.Provider = (*Provider)(nil)

// New 创建百度提供商
func New(config Config, opts ...providers.Option) *Provider {
	return &Provider{
		config: config,
		signer: signer.NewMD5Signer(config.AppID, config.Key),
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
		Auth:                "md5",
		SupportedLanguages:  Table.Supported(),
		RequiresCredentials: true,
		DetectsSource:       true,
		TTS:                 true,
	}
}

type response struct {
	ErrorCode   providers.Code `json:"error_code"`
	ErrorMsg    string         `json:"error_msg"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

// prepare 以当前毫秒时间作为 salt 重新签名
func (p *Provider) prepare(req *transport.Request) error {
	now := p.opts.Clock()
	req.Query.Set("salt", strconv.FormatInt(now.UnixMilli(), 10))
	return p.signer.Sign(req, now)
}

// Query 执行翻译
func (p *Provider) Query(ctx context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	req := transport.NewRequest(http.MethodGet, p.config.EndpointOr(DefaultEndpoint))
	providers.ApplyHeaders(req, p.config.Headers)
	req.Query.Set("from", Table.ToProvider(from))
	req.Query.Set("to", Table.ToProvider(to))
	req.Query.Set("q", text)

	if err := p.prepare(req); err != nil {
		return nil, providers.SignError(err)
	}
	req.Prepare = p.prepare

	resp, err := p.opts.Transport.Send(ctx, req)
	if err != nil {
		return nil, translator.FromTransport(err, translator.DefaultStatusTable)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, providers.DecodeError(err)
	}
	if body.ErrorCode != "" && body.ErrorCode != "52000" {
		return nil, Codes.Error(string(body.ErrorCode))
	}

	detected := from
	if lang, ok := Table.ToCanonical(body.From); ok {
		detected = lang
	}

	origin := make([]string, 0, len(body.TransResult))
	trans := make([]string, 0, len(body.TransResult))
	for _, r := range body.TransResult {
		origin = append(origin, r.Src)
		trans = append(trans, r.Dst)
	}
	if len(origin) == 0 {
		origin = translator.SplitParagraphs(text)
	}

	result := &translator.Result{
		Text:   text,
		From:   detected,
		To:     to,
		Origin: translator.Section{Paragraphs: origin},
		Trans:  translator.Section{Paragraphs: trans},
	}

	var g errgroup.Group
	g.Go(func() error {
		result.Origin.TTS = p.tts.URL(text, detected)
		return nil
	})
	g.Go(func() error {
		result.Trans.TTS = p.tts.URL(strings.Join(trans, " "), to)
		return nil
	})
	_ = g.Wait()

	return result, nil
}
