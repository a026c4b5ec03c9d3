package languages

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/language"
)

// aliases 常见写法到规范语言的映射
var aliases = map[string]Language{
	"zh":      ChineseSimplified,
	"zh-hans": ChineseSimplified,
	"zh-cn":   ChineseSimplified,
	"zh-sg":   ChineseSimplified,
	"zh-hant": ChineseTraditional,
	"zh-tw":   ChineseTraditional,
	"zh-hk":   ChineseTraditional,
	"zh-mo":   ChineseTraditional,
	"cn":      ChineseSimplified,
	"jp":      Japanese,
	"kr":      Korean,
	"iw":      "he",
	"in":      "id",
	"nb":      "no",
	"nn":      "no",
}

// Parse 将用户输入规范化为规范语言
//
// 接受大小写与分隔符的各种写法（zh_cn、EN-us、zh-Hant），
// 无法识别时返回错误。
func Parse(s string) (Language, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", fmt.Errorf("empty language")
	}
	if IsValid(Language(raw)) {
		return Language(raw), nil
	}

	normalized := strings.ToLower(strings.ReplaceAll(raw, "_", "-"))
	if normalized == string(Auto) {
		return Auto, nil
	}
	if l, ok := aliases[normalized]; ok {
		return l, nil
	}
	for _, l := range all {
		if strings.EqualFold(string(l), normalized) {
			return l, nil
		}
	}

	tag, err := language.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("unknown language %q", s)
	}

	base, _ := tag.Base()
	if base.String() == "zh" {
		script, _ := tag.Script()
		if script.String() == "Hant" {
			return ChineseTraditional, nil
		}
		return ChineseSimplified, nil
	}
	if base.String() == "sr" {
		if script, conf := tag.Script(); conf == language.Exact {
			if l := Language("sr-" + script.String()); IsValid(l) {
				return l, nil
			}
		}
	}
	if l := Language(base.String()); IsValid(l) {
		return l, nil
	}
	if l, ok := aliases[base.String()]; ok {
		return l, nil
	}

	return "", fmt.Errorf("unknown language %q", s)
}

// Suggest 为无法识别的输入给出相近的规范语言
func Suggest(s string) []Language {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return nil
	}

	targets := make([]string, 0, len(names)*2)
	index := make(map[string]Language, len(names)*2)
	for _, n := range names {
		code := strings.ToLower(string(n.lang))
		name := strings.ToLower(n.name)
		targets = append(targets, code, name)
		index[code] = n.lang
		index[name] = n.lang
	}

	ranks := fuzzy.RankFindNormalizedFold(needle, targets)
	sort.Sort(ranks)

	seen := make(map[Language]bool)
	var out []Language
	for _, r := range ranks {
		l := index[r.Target]
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
		if len(out) == 5 {
			break
		}
	}
	return out
}

// FromISO6391 将检测器返回的 ISO 639-1 代码映射为规范语言
func FromISO6391(code string) Language {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "":
		return ""
	case "zh":
		return ChineseSimplified
	case "nb", "nn":
		return "no"
	case "he", "iw":
		return "he"
	}
	if l := Language(code); IsValid(l) {
		return l
	}
	return ""
}
