package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

const (
	// V4Algorithm 派生密钥链签名算法名
	V4Algorithm = "HMAC-SHA256"
	// V4Terminator 凭据范围的结尾
	V4Terminator = "request"
	// V4TimeFormat X-Date 时间格式，无分隔符无毫秒
	V4TimeFormat = "20060102T150405Z"
	// V4DateFormat 凭据范围中的日期格式
	V4DateFormat = "20060102"
)

// V4Signer 按日期限定范围的派生密钥链签名
type V4Signer struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Service         string
}

// NewV4Signer 创建派生密钥链签名器
func NewV4Signer(accessKeyID, secret, region, service string) *V4Signer {
	return &V4Signer{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secret,
		Region:          region,
		Service:         service,
	}
}

// Sign 实现 Signer
//
// now 同时用于 X-Date 头部与待签名字符串，保证两者是同一时刻。
func (s *V4Signer) Sign(req *transport.Request, now time.Time) error {
	if s.AccessKeyID == "" {
		return fmt.Errorf("access key id: %w", ErrMissingCredential)
	}
	if s.SecretAccessKey == "" {
		return fmt.Errorf("secret access key: %w", ErrMissingCredential)
	}

	now = now.UTC()
	xDate := now.Format(V4TimeFormat)
	date := now.Format(V4DateFormat)
	bodyHash := HashSHA256(req.Body)

	req.SetHeader("X-Date", xDate)
	req.SetHeader("X-Content-Sha256", bodyHash)

	headers := map[string]string{
		"host":             req.Host(),
		"x-date":           xDate,
		"x-content-sha256": bodyHash,
	}
	if ct := req.GetHeader("Content-Type"); ct != "" {
		headers["content-type"] = ct
	}

	canonicalHeaders, signedHeaders := CanonicalHeaders(headers)
	canonicalRequest := CanonicalRequest(req.Method, req.Path(), canonicalValues(req.Query), canonicalHeaders, signedHeaders, bodyHash)

	scope := CredentialScope(date, s.Region, s.Service)
	stringToSign := V4StringToSign(xDate, scope, HashSHA256([]byte(canonicalRequest)))
	signature := hex.EncodeToString(hmacSHA256(DeriveSigningKey(s.SecretAccessKey, date, s.Region, s.Service), stringToSign))

	req.SetHeader("Authorization", fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		V4Algorithm, s.AccessKeyID, scope, signedHeaders, signature))
	return nil
}

// CanonicalHeaders 头部名称小写后按字典序排列，每行 name:value\n
//
// 值去除首尾空白并把连续空白压缩为一个空格。返回规范头部块与分号连接的签名头部列表。
func CanonicalHeaders(headers map[string]string) (string, string) {
	names := make([]string, 0, len(headers))
	values := make(map[string]string, len(headers))
	for k, v := range headers {
		name := strings.ToLower(strings.TrimSpace(k))
		names = append(names, name)
		values[name] = strings.Join(strings.Fields(v), " ")
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(values[name])
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(names, ";")
}

// CanonicalRequest 规范请求
//
// METHOD \n URI \n query \n headers-block \n signed-headers \n body-hash，
// 头部块自身以换行结尾，因此其后出现一个空行。
func CanonicalRequest(method, uri, query, canonicalHeaders, signedHeaders, bodyHash string) string {
	if uri == "" {
		uri = "/"
	}
	return strings.Join([]string{
		strings.ToUpper(method),
		uri,
		query,
		canonicalHeaders,
		signedHeaders,
		bodyHash,
	}, "\n")
}

// CredentialScope date/region/service/request
func CredentialScope(date, region, service string) string {
	return strings.Join([]string{date, region, service, V4Terminator}, "/")
}

// V4StringToSign HMAC-SHA256 \n 时间 \n 凭据范围 \n 规范请求的哈希
func V4StringToSign(xDate, scope, hashedCanonicalRequest string) string {
	return strings.Join([]string{V4Algorithm, xDate, scope, hashedCanonicalRequest}, "\n")
}

// DeriveSigningKey 四步派生签名密钥
//
// kDate = HMAC(secret, date)，kRegion = HMAC(kDate, region)，
// kService = HMAC(kRegion, service)，kSigning = HMAC(kService, "request")。
func DeriveSigningKey(secret, date, region, service string) []byte {
	kDate := hmacSHA256([]byte(secret), date)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, V4Terminator)
}

// V4Signature 用派生密钥对待签名字符串签名，返回十六进制
func V4Signature(secret, date, region, service, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(DeriveSigningKey(secret, date, region, service), stringToSign))
}

// HashSHA256 十六进制 SHA-256
func HashSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
