package translator

import (
	"context"
	"regexp"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"go.uber.org/zap"
)

// Translator 统一查询流程：校验语言 → 提供商查询 → 错误归一化 → 诊断上报
type Translator struct {
	provider Provider
	name     string
	logger   *zap.Logger
}

var _ Engine = (*Translator)(nil)

// New 创建翻译器
func New(provider Provider, opts ...Option) *Translator {
	options := translatorOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}

	name := options.name
	if name == "" {
		name = provider.Name()
	}

	return &Translator{
		provider: provider,
		name:     name,
		logger:   options.logger.With(zap.String("provider", name)),
	}
}

// Name 引擎名称
func (t *Translator) Name() string {
	return t.name
}

// SupportedLanguages 提供商支持的语言
func (t *Translator) SupportedLanguages() []languages.Language {
	return t.provider.SupportedLanguages()
}

// Translate 执行翻译
//
// 任何失败都以 *Error 返回；语言不在规范集合内时为 UNSUPPORTED_LANG。
// 规范集合内但提供商不支持的语言交由提供商以空代码或 auto 处理。
func (t *Translator) Translate(ctx context.Context, text string, from, to languages.Language) (*Result, error) {
	if from == "" {
		from = languages.Auto
	}
	if !languages.IsValid(from) {
		return nil, t.fail(NewError(ErrUnsupportedLang, string(from)))
	}
	if !languages.IsValid(to) || to == languages.Auto {
		return nil, t.fail(NewError(ErrUnsupportedLang, string(to)))
	}

	result, err := t.provider.Query(ctx, text, from, to)
	if err != nil {
		return nil, t.fail(Normalize(err))
	}
	if result == nil {
		return nil, t.fail(NewError(ErrUnknown, "empty result"))
	}

	result.Engine = t.name
	if result.Text == "" {
		result.Text = text
	}
	if result.To == "" {
		result.To = to
	}
	if result.From == "" {
		result.From = from
	}
	if len(result.Origin.Paragraphs) == 0 {
		result.Origin.Paragraphs = SplitParagraphs(text)
	}
	if len(result.Trans.Paragraphs) == 0 {
		result.Trans.Paragraphs = []string{""}
	}

	return result, nil
}

// fail 上报诊断信息后原样返回错误，日志写入不影响控制流
func (t *Translator) fail(err *Error) *Error {
	fields := []zap.Field{zap.String("type", string(err.Type))}
	if err.Cause != "" {
		fields = append(fields, zap.String("code", err.Cause))
	}
	if err.Err != nil {
		fields = append(fields, zap.NamedError("cause", err.Err))
	}
	t.logger.Warn("translate failed", fields...)
	return err
}

var newlines = regexp.MustCompile(`\n+`)

// SplitParagraphs 按一个或多个换行切分段落，结果至少包含一个元素
func SplitParagraphs(text string) []string {
	return newlines.Split(text, -1)
}
