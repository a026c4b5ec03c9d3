package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

// ErrProviderNotFound 注册表中没有该引擎
var ErrProviderNotFound = errors.New("provider not found")

// Registry 引擎注册表
type Registry struct {
	mu      sync.RWMutex
	engines map[string]translator.Engine
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]translator.Engine),
	}
}

// Register 注册引擎
func (r *Registry) Register(name string, engine translator.Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.engines[name] = engine
	return nil
}

// Get 获取引擎
func (r *Registry) Get(name string) (translator.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, exists := r.engines[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}

	return engine, nil
}

// List 按名称排序列出所有引擎
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Remove 移除引擎
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.engines, name)
}

// Clear 清空注册表
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.engines = make(map[string]translator.Engine)
}
