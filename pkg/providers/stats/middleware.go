package stats

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

// StatisticsMiddleware 统计中间件
type StatisticsMiddleware struct {
	next         translator.Engine
	statsManager *StatsManager
}

var _ translator.Engine = (*StatisticsMiddleware)(nil)

// NewStatisticsMiddleware 创建统计中间件
func NewStatisticsMiddleware(next translator.Engine, statsManager *StatsManager) *StatisticsMiddleware {
	return &StatisticsMiddleware{
		next:         next,
		statsManager: statsManager,
	}
}

// Name 引擎名称
func (sm *StatisticsMiddleware) Name() string {
	return sm.next.Name()
}

// SupportedLanguages 支持的语言
func (sm *StatisticsMiddleware) SupportedLanguages() []languages.Language {
	return sm.next.SupportedLanguages()
}

// Translate 带统计的翻译方法
func (sm *StatisticsMiddleware) Translate(ctx context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	startTime := time.Now()

	result, err := sm.next.Translate(ctx, text, from, to)

	record := RequestResult{
		Success:    err == nil,
		Latency:    time.Since(startTime),
		Characters: utf8.RuneCountInString(text),
		From:       string(from),
		To:         string(to),
	}
	if err != nil {
		record.ErrorType = string(translator.TypeOf(err))
	} else if result != nil && result.From != "" {
		record.From = string(result.From)
	}

	sm.statsManager.RecordRequest(sm.next.Name(), record)

	return result, err
}
