package languages

// Pair 规范语言与提供商原生代码的对应关系
type Pair struct {
	Canonical Language
	Native    string
}

// Table 双向语言代码表
//
// 正向与反向映射由同一个 Pair 列表构建，构建后只读，可被任意多个
// goroutine 并发读取。多个规范语言共享同一个原生代码时，反向映射
// 保留列表中最先出现的那一个。
type Table struct {
	order   []Language
	forward map[Language]string
	reverse map[string]Language
}

// NewTable 从有序列表构建语言代码表
func NewTable(pairs []Pair) *Table {
	t := &Table{
		order:   make([]Language, 0, len(pairs)),
		forward: make(map[Language]string, len(pairs)),
		reverse: make(map[string]Language, len(pairs)),
	}

	for _, p := range pairs {
		if _, dup := t.forward[p.Canonical]; dup {
			continue
		}
		t.order = append(t.order, p.Canonical)
		t.forward[p.Canonical] = p.Native
		if _, exists := t.reverse[p.Native]; !exists {
			t.reverse[p.Native] = p.Canonical
		}
	}

	return t
}

// ToProvider 规范语言转提供商代码，不存在时返回空字符串
func (t *Table) ToProvider(l Language) string {
	return t.forward[l]
}

// ToProviderOr 规范语言转提供商代码，不存在时返回 fallback
func (t *Table) ToProviderOr(l Language, fallback string) string {
	if code, ok := t.forward[l]; ok {
		return code
	}
	return fallback
}

// ToCanonical 提供商代码转规范语言
func (t *Table) ToCanonical(native string) (Language, bool) {
	l, ok := t.reverse[native]
	return l, ok
}

// Has 判断表中是否包含该规范语言
func (t *Table) Has(l Language) bool {
	_, ok := t.forward[l]
	return ok
}

// Supported 按源列表顺序返回支持的规范语言
func (t *Table) Supported() []Language {
	out := make([]Language, len(t.order))
	copy(out, t.order)
	return out
}

// Len 返回表中规范语言数量
func (t *Table) Len() int {
	return len(t.order)
}
