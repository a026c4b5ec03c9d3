package translator

import (
	"context"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
)

// Provider 单个翻译服务商的适配器
type Provider interface {
	// Name 提供商名称
	Name() string

	// SupportedLanguages 按语言表顺序返回支持的规范语言
	SupportedLanguages() []languages.Language

	// Query 执行一次翻译；失败时只返回 *Error
	Query(ctx context.Context, text string, from, to languages.Language) (*Result, error)
}

// Engine 统一查询契约
type Engine interface {
	Name() string
	SupportedLanguages() []languages.Language
	Translate(ctx context.Context, text string, from, to languages.Language) (*Result, error)
}

// Detector 源语言检测，用于响应中不带检测结果的提供商
type Detector interface {
	Detect(ctx context.Context, text string) (languages.Language, error)
}

// Section 原文或译文
type Section struct {
	Paragraphs []string `json:"paragraphs"`
	TTS        string   `json:"tts,omitempty"`
}

// Result 统一的查询结果
type Result struct {
	Engine string             `json:"engine"`
	Text   string             `json:"text"`
	From   languages.Language `json:"from"`
	To     languages.Language `json:"to"`
	Origin Section            `json:"origin"`
	Trans  Section            `json:"trans"`
}
