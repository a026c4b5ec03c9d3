package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// StringToSign 平铺查询签名方案的待签名字符串
//
// METHOD & percentEncode("/") & percentEncode(canonicalQuery)
func StringToSign(method string, params map[string]string) string {
	return strings.Join([]string{
		strings.ToUpper(method),
		PercentEncode("/"),
		PercentEncode(CanonicalQuery(params)),
	}, "&")
}

// HMACSHA1Signature 计算平铺查询签名：base64(HMAC-SHA1(stringToSign, secret+"&"))
func HMACSHA1Signature(method string, params map[string]string, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(StringToSign(method, params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// QuerySigner 平铺 HMAC-SHA1 查询签名
//
// 参与签名的参数是 URL 参数与表单参数的并集，签名结果写入 URL 参数。
// Nonce 与时间戳由调用方作为普通参数放入请求。
type QuerySigner struct {
	AccessKeySecret string
	// SignatureParam 签名参数名，默认 "Signature"
	SignatureParam string
}

// NewQuerySigner 创建平铺查询签名器
func NewQuerySigner(secret string) *QuerySigner {
	return &QuerySigner{AccessKeySecret: secret, SignatureParam: "Signature"}
}

// Sign 实现 Signer
func (s *QuerySigner) Sign(req *transport.Request, _ time.Time) error {
	if s.AccessKeySecret == "" {
		return fmt.Errorf("access key secret: %w", ErrMissingCredential)
	}

	params := flatten(req.Query)
	if isForm(req) && len(req.Body) > 0 {
		form, err := url.ParseQuery(string(req.Body))
		if err != nil {
			return fmt.Errorf("parse form body: %w", err)
		}
		for k, v := range flatten(form) {
			params[k] = v
		}
	}

	name := s.SignatureParam
	if name == "" {
		name = "Signature"
	}
	delete(params, name)

	req.Query.Set(name, HMACSHA1Signature(req.Method, params, s.AccessKeySecret))
	return nil
}

func isForm(req *transport.Request) bool {
	return strings.HasPrefix(strings.ToLower(req.GetHeader("Content-Type")), "application/x-www-form-urlencoded")
}
