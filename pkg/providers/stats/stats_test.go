package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

type fakeEngine struct {
	err error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) SupportedLanguages() []languages.Language {
	return []languages.Language{languages.Auto}
}

func (f *fakeEngine) Translate(_ context.Context, text string, from, to languages.Language) (*translator.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &translator.Result{Engine: "fake", Text: text, From: languages.English, To: to}, nil
}

func TestRecordRequest(t *testing.T) {
	sm := NewStatsManager("", nil)

	sm.RecordRequest("baidu", RequestResult{Success: true, Latency: 100 * time.Millisecond, Characters: 5})
	sm.RecordRequest("baidu", RequestResult{Success: false, Latency: 300 * time.Millisecond, ErrorType: "AUTH_ERROR"})

	stats := sm.GetStats("baidu")
	require.NotNil(t, stats)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.SuccessfulRequests)
	assert.Equal(t, int64(1), stats.FailedRequests)
	assert.Equal(t, int64(5), stats.TotalCharacters)
	assert.Equal(t, 100*time.Millisecond, stats.MinLatency)
	assert.Equal(t, 300*time.Millisecond, stats.MaxLatency)
	assert.Equal(t, 200*time.Millisecond, stats.AverageLatency)
	assert.Equal(t, int64(1), stats.ErrorTypes["AUTH_ERROR"])

	metrics := stats.CalculateMetrics()
	assert.InDelta(t, 50.0, metrics["success_rate"], 0.001)

	assert.Nil(t, sm.GetStats("missing"))
}

func TestMiddlewareRecordsOutcome(t *testing.T) {
	sm := NewStatsManager("", nil)

	ok := NewStatisticsMiddleware(&fakeEngine{}, sm)
	_, err := ok.Translate(context.Background(), "你好", languages.Auto, languages.English)
	require.NoError(t, err)

	failing := NewStatisticsMiddleware(&fakeEngine{err: translator.NewError(translator.ErrTooManyRequests, "54003")}, sm)
	_, err = failing.Translate(context.Background(), "hi", languages.English, languages.Japanese)
	require.Error(t, err)

	stats := sm.GetStats("fake")
	require.NotNil(t, stats)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(4), stats.TotalCharacters)
	assert.Equal(t, int64(1), stats.ErrorTypes["TOO_MANY_REQUESTS"])
	assert.Equal(t, int64(1), stats.LanguagePairs["en->en"])
	assert.Equal(t, int64(1), stats.LanguagePairs["en->ja"])
	assert.Equal(t, "fake", ok.Name())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.json")

	sm := NewStatsManager(path, nil)
	sm.RecordRequest("volc", RequestResult{Success: false, ErrorType: "UNKNOWN", Latency: time.Second})
	require.NoError(t, sm.SaveToDB())

	loaded := NewStatsManager(path, nil)
	require.NoError(t, loaded.LoadFromDB())

	stats := loaded.GetStats("volc")
	require.NotNil(t, stats)
	assert.Equal(t, int64(1), stats.FailedRequests)
	assert.Equal(t, int64(1), stats.ErrorTypes["UNKNOWN"])
	assert.Equal(t, time.Second, stats.MaxLatency)
}

func TestLoadMissingFile(t *testing.T) {
	sm := NewStatsManager(filepath.Join(t.TempDir(), "none.json"), nil)
	assert.NoError(t, sm.LoadFromDB())
	assert.Empty(t, sm.GetAllStats())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	sm := NewStatsManager("", nil)
	sm.RenderTable(&buf)
	assert.Contains(t, buf.String(), "No statistics available.")

	buf.Reset()
	sm.RecordRequest("aliyun", RequestResult{Success: false, ErrorType: "AUTH_ERROR"})
	sm.RenderTable(&buf)
	assert.Contains(t, buf.String(), "aliyun")
	assert.Contains(t, buf.String(), "AUTH_ERROR")
}

func TestTopError(t *testing.T) {
	assert.Equal(t, "-", topError(nil))
	assert.Equal(t, "A", topError(map[string]int64{"B": 2, "A": 2, "C": 1}))
}
