// Package stats 统计各提供商的调用次数、延迟与错误分类
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
)

// ProviderStats Provider性能统计
type ProviderStats struct {
	ProviderName       string `json:"provider_name"`
	TotalRequests      int64  `json:"total_requests"`
	SuccessfulRequests int64  `json:"successful_requests"`
	FailedRequests     int64  `json:"failed_requests"`
	TotalCharacters    int64  `json:"total_characters"`

	// 性能指标
	AverageLatency time.Duration `json:"average_latency"`
	MinLatency     time.Duration `json:"min_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
	TotalLatency   time.Duration `json:"total_latency"`

	// 按错误类型统计
	ErrorTypes map[string]int64 `json:"error_types"`

	// 按语言方向统计，如 auto->zh-CN
	LanguagePairs map[string]int64 `json:"language_pairs"`

	// 时间统计
	FirstRequestTime time.Time `json:"first_request_time"`
	LastRequestTime  time.Time `json:"last_request_time"`

	mu sync.RWMutex `json:"-"`
}

// RequestResult 单次请求结果
type RequestResult struct {
	Success    bool
	Latency    time.Duration
	Characters int
	ErrorType  string
	From       string
	To         string
}

// StatsManager 统计管理器
type StatsManager struct {
	stats  map[string]*ProviderStats
	dbPath string
	logger *zap.Logger
	now    func() time.Time
	mu     sync.RWMutex
}

// NewStatsManager 创建统计管理器，dbPath 为空时不落盘
func NewStatsManager(dbPath string, logger *zap.Logger) *StatsManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsManager{
		stats:  make(map[string]*ProviderStats),
		dbPath: dbPath,
		logger: logger,
		now:    time.Now,
	}
}

// getOrCreateStats 获取或创建统计对象
func (sm *StatsManager) getOrCreateStats(provider string) *ProviderStats {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if stats, exists := sm.stats[provider]; exists {
		return stats
	}

	stats := &ProviderStats{
		ProviderName:  provider,
		ErrorTypes:    make(map[string]int64),
		LanguagePairs: make(map[string]int64),
	}

	sm.stats[provider] = stats
	return stats
}

// RecordRequest 记录请求结果
func (sm *StatsManager) RecordRequest(provider string, result RequestResult) {
	stats := sm.getOrCreateStats(provider)

	stats.mu.Lock()
	defer stats.mu.Unlock()

	now := sm.now()
	if stats.FirstRequestTime.IsZero() {
		stats.FirstRequestTime = now
	}
	stats.LastRequestTime = now

	stats.TotalRequests++
	stats.TotalCharacters += int64(result.Characters)

	if result.Success {
		stats.SuccessfulRequests++
	} else {
		stats.FailedRequests++
		if result.ErrorType != "" {
			stats.ErrorTypes[result.ErrorType]++
		}
	}

	if result.From != "" || result.To != "" {
		stats.LanguagePairs[result.From+"->"+result.To]++
	}

	// 延迟统计
	stats.TotalLatency += result.Latency
	if stats.TotalRequests == 1 || result.Latency < stats.MinLatency {
		stats.MinLatency = result.Latency
	}
	if result.Latency > stats.MaxLatency {
		stats.MaxLatency = result.Latency
	}
	stats.AverageLatency = stats.TotalLatency / time.Duration(stats.TotalRequests)
}

// copyStats 返回副本，调用方需持有 stats 的读锁
func copyStats(stats *ProviderStats) *ProviderStats {
	statsCopy := &ProviderStats{
		ProviderName:       stats.ProviderName,
		TotalRequests:      stats.TotalRequests,
		SuccessfulRequests: stats.SuccessfulRequests,
		FailedRequests:     stats.FailedRequests,
		TotalCharacters:    stats.TotalCharacters,
		AverageLatency:     stats.AverageLatency,
		MinLatency:         stats.MinLatency,
		MaxLatency:         stats.MaxLatency,
		TotalLatency:       stats.TotalLatency,
		ErrorTypes:         make(map[string]int64, len(stats.ErrorTypes)),
		LanguagePairs:      make(map[string]int64, len(stats.LanguagePairs)),
		FirstRequestTime:   stats.FirstRequestTime,
		LastRequestTime:    stats.LastRequestTime,
	}
	for k, v := range stats.ErrorTypes {
		statsCopy.ErrorTypes[k] = v
	}
	for k, v := range stats.LanguagePairs {
		statsCopy.LanguagePairs[k] = v
	}
	return statsCopy
}

// GetStats 获取指定Provider的统计信息
func (sm *StatsManager) GetStats(provider string) *ProviderStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	stats, exists := sm.stats[provider]
	if !exists {
		return nil
	}

	stats.mu.RLock()
	defer stats.mu.RUnlock()
	return copyStats(stats)
}

// GetAllStats 获取所有统计信息
func (sm *StatsManager) GetAllStats() map[string]*ProviderStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make(map[string]*ProviderStats, len(sm.stats))
	for key, stats := range sm.stats {
		stats.mu.RLock()
		result[key] = copyStats(stats)
		stats.mu.RUnlock()
	}

	return result
}

// CalculateMetrics 计算性能指标
func (ps *ProviderStats) CalculateMetrics() map[string]interface{} {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	metrics := make(map[string]interface{})

	// 基础成功率
	if ps.TotalRequests > 0 {
		metrics["success_rate"] = float64(ps.SuccessfulRequests) / float64(ps.TotalRequests) * 100
		metrics["error_rate"] = float64(ps.FailedRequests) / float64(ps.TotalRequests) * 100
		metrics["characters_per_request"] = float64(ps.TotalCharacters) / float64(ps.TotalRequests)
	}

	// 性能指标
	metrics["average_latency_ms"] = ps.AverageLatency.Milliseconds()
	metrics["min_latency_ms"] = ps.MinLatency.Milliseconds()
	metrics["max_latency_ms"] = ps.MaxLatency.Milliseconds()

	return metrics
}

// SaveToDB 保存统计数据到文件
func (sm *StatsManager) SaveToDB() error {
	if sm.dbPath == "" {
		return nil
	}

	// 确保目录存在
	dir := filepath.Dir(sm.dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(sm.GetAllStats(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	tempPath := sm.dbPath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}

	if err := os.Rename(tempPath, sm.dbPath); err != nil {
		return fmt.Errorf("failed to rename stats file: %w", err)
	}

	sm.logger.Debug("stats saved", zap.String("path", sm.dbPath))
	return nil
}

// LoadFromDB 从文件加载统计数据
func (sm *StatsManager) LoadFromDB() error {
	if sm.dbPath == "" {
		return nil
	}

	data, err := os.ReadFile(sm.dbPath)
	if os.IsNotExist(err) {
		sm.logger.Debug("stats file not found, starting fresh", zap.String("path", sm.dbPath))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var statsData map[string]*ProviderStats
	if err := json.Unmarshal(data, &statsData); err != nil {
		return fmt.Errorf("failed to unmarshal stats data: %w", err)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	for key, stats := range statsData {
		if stats.ErrorTypes == nil {
			stats.ErrorTypes = make(map[string]int64)
		}
		if stats.LanguagePairs == nil {
			stats.LanguagePairs = make(map[string]int64)
		}
		sm.stats[key] = stats
	}

	sm.logger.Debug("stats loaded",
		zap.String("path", sm.dbPath),
		zap.Int("providers", len(statsData)))

	return nil
}

// RenderTable 以表格形式输出统计
func (sm *StatsManager) RenderTable(w io.Writer) {
	allStats := sm.GetAllStats()
	if len(allStats) == 0 {
		fmt.Fprintln(w, "No statistics available.")
		return
	}

	names := make([]string, 0, len(allStats))
	for name := range allStats {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Provider Statistics")
	t.AppendHeader(table.Row{"Provider", "Requests", "Success%", "Chars", "Avg Latency", "Max Latency", "Top Error"})

	for _, name := range names {
		stats := allStats[name]
		metrics := stats.CalculateMetrics()
		t.AppendRow(table.Row{
			stats.ProviderName,
			stats.TotalRequests,
			fmt.Sprintf("%.1f", getFloat(metrics, "success_rate")),
			stats.TotalCharacters,
			fmt.Sprintf("%dms", getInt(metrics, "average_latency_ms")),
			fmt.Sprintf("%dms", getInt(metrics, "max_latency_ms")),
			topError(stats.ErrorTypes),
		})
	}

	t.Render()
}

// 辅助函数
func getFloat(m map[string]interface{}, key string) float64 {
	if val, ok := m[key]; ok {
		if f, ok := val.(float64); ok {
			return f
		}
	}
	return 0.0
}

func getInt(m map[string]interface{}, key string) int64 {
	if val, ok := m[key]; ok {
		if i, ok := val.(int64); ok {
			return i
		}
	}
	return 0
}

// topError 出现次数最多的错误类型，次数相同时取字典序靠前者
func topError(errorTypes map[string]int64) string {
	best, count := "-", int64(0)
	for typ, n := range errorTypes {
		if n > count || (n == count && typ < best) {
			best, count = typ, n
		}
	}
	return best
}
