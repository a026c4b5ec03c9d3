package translator

import (
	"strings"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
)

// BaiduTTSEndpoint 百度翻译的公开朗读地址
const BaiduTTSEndpoint = "https://fanyi.baidu.com/gettts"

// TTS 朗读链接模板：<endpoint>?lan=<code>&text=<text>&spd=5
//
// 语言代码来自给定的语言表；auto 按 Fallback 处理，查不到时使用 FallbackCode。
type TTS struct {
	Endpoint     string
	Table        *languages.Table
	Fallback     languages.Language
	FallbackCode string
	Speed        string
}

// NewBaiduTTS 使用给定语言表构建百度朗读链接模板
func NewBaiduTTS(table *languages.Table) TTS {
	return TTS{
		Endpoint:     BaiduTTSEndpoint,
		Table:        table,
		Fallback:     languages.ChineseSimplified,
		FallbackCode: "zh",
		Speed:        "5",
	}
}

// URL 生成朗读链接，纯字符串拼接，不发起网络请求
func (t TTS) URL(text string, lang languages.Language) string {
	if lang == languages.Auto || lang == "" {
		lang = t.Fallback
	}
	code := ""
	if t.Table != nil {
		code = t.Table.ToProvider(lang)
	}
	if code == "" {
		code = t.FallbackCode
	}

	var b strings.Builder
	b.WriteString(t.Endpoint)
	b.WriteString("?lan=")
	b.WriteString(signer.EscapeRFC3986(code))
	b.WriteString("&text=")
	b.WriteString(signer.EscapeRFC3986(text))
	b.WriteString("&spd=")
	b.WriteString(t.Speed)
	return b.String()
}
