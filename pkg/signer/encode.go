package signer

import (
	"net/url"
	"sort"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EscapeRFC3986 按 RFC 3986 编码，仅保留 A-Z a-z 0-9 - _ . ~
//
// 等价于 encodeURIComponent 之后再把 ! ' ( ) * 编码为百分号形式。
func EscapeRFC3986(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// PercentEncode 签名用百分号编码：RFC 3986 编码后把 %20 换成 +
func PercentEncode(s string) string {
	return strings.ReplaceAll(EscapeRFC3986(s), "%20", "+")
}

func unreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// CanonicalQuery 按键字典序排序后拼接 k=v，键值均经 PercentEncode
//
// 相同的参数集合无论插入顺序如何，得到的字符串逐字节一致。
func CanonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, PercentEncode(k)+"="+PercentEncode(params[k]))
	}
	return strings.Join(pairs, "&")
}

// canonicalValues url.Values 版本的规范查询串，编码使用 EscapeRFC3986（空格为 %20）
func canonicalValues(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		vs := append([]string(nil), values[k]...)
		sort.Strings(vs)
		for _, v := range vs {
			pairs = append(pairs, EscapeRFC3986(k)+"="+EscapeRFC3986(v))
		}
	}
	return strings.Join(pairs, "&")
}

// flatten 取每个键的第一个值
func flatten(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		} else {
			out[k] = ""
		}
	}
	return out
}
