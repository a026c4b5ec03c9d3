// Package detect 为响应中不带源语言的提供商做本地语言检测
package detect

import (
	"context"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

// DefaultMinLetters 少于该字母数的文本不做检测
const DefaultMinLetters = 6

// Lingua 基于 lingua-go 的检测器，模型在首次检测时构建
type Lingua struct {
	languages  []lingua.Language
	minLetters int

	once     sync.Once
	detector lingua.LanguageDetector
}

var _ translator.Detector = (*Lingua)(nil)

// NewLingua 创建检测器；不指定语言时加载全部语言模型
func NewLingua(langs ...lingua.Language) *Lingua {
	return &Lingua{
		languages:  langs,
		minLetters: DefaultMinLetters,
	}
}

// WithMinLetters 调整最少字母数
func (l *Lingua) WithMinLetters(n int) *Lingua {
	l.minLetters = n
	return l
}

// Detect 返回规范语言；无法确定时返回 auto，不视为错误
func (l *Lingua) Detect(ctx context.Context, text string) (languages.Language, error) {
	if err := ctx.Err(); err != nil {
		return languages.Auto, err
	}

	sample := strings.TrimSpace(text)
	if countLetters(sample) < l.minLetters {
		return languages.Auto, nil
	}

	language, exists := l.get().DetectLanguageOf(sample)
	if !exists {
		return languages.Auto, nil
	}

	if found := languages.FromISO6391(language.IsoCode639_1().String()); found != "" {
		return found, nil
	}
	return languages.Auto, nil
}

func (l *Lingua) get() lingua.LanguageDetector {
	l.once.Do(func() {
		builder := lingua.NewLanguageDetectorBuilder()
		if len(l.languages) >= 2 {
			l.detector = builder.FromLanguages(l.languages...).Build()
			return
		}
		l.detector = builder.FromAllLanguages().Build()
	})
	return l.detector
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Fixed 固定返回同一语言的检测器，用于测试与关闭检测
type Fixed languages.Language

// Detect 实现 translator.Detector
func (f Fixed) Detect(context.Context, string) (languages.Language, error) {
	return languages.Language(f), nil
}
