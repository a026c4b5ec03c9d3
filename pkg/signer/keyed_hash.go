package signer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// KeyedHash 按固定顺序拼接各部分后取摘要，返回小写十六进制
func KeyedHash(newHash func() hash.Hash, parts ...string) string {
	h := newHash()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// KeyedHashSigner 简单拼接摘要签名：hash(appId + text + salt + secret)
//
// 从 URL 参数读取文本与 salt，签名写回 URL 参数。
type KeyedHashSigner struct {
	AppID   string
	Secret  string
	NewHash func() hash.Hash

	AppIDParam string
	TextParam  string
	SaltParam  string
	SignParam  string
}

// NewMD5Signer 创建 md5(appid + q + salt + key) 签名器
func NewMD5Signer(appID, secret string) *KeyedHashSigner {
	return &KeyedHashSigner{
		AppID:      appID,
		Secret:     secret,
		NewHash:    md5.New,
		AppIDParam: "appid",
		TextParam:  "q",
		SaltParam:  "salt",
		SignParam:  "sign",
	}
}

// Sign 实现 Signer
func (s *KeyedHashSigner) Sign(req *transport.Request, _ time.Time) error {
	if s.AppID == "" {
		return fmt.Errorf("app id: %w", ErrMissingCredential)
	}
	if s.Secret == "" {
		return fmt.Errorf("app key: %w", ErrMissingCredential)
	}

	salt := req.Query.Get(s.SaltParam)
	if salt == "" {
		return fmt.Errorf("signing parameter %q is empty", s.SaltParam)
	}

	newHash := s.NewHash
	if newHash == nil {
		newHash = md5.New
	}

	req.Query.Set(s.AppIDParam, s.AppID)
	req.Query.Set(s.SignParam, KeyedHash(newHash, s.AppID, req.Query.Get(s.TextParam), salt, s.Secret))
	return nil
}
