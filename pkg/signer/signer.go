// Package signer 实现各提供商的请求规范化与签名策略。
//
// 所有签名器都是无状态的：每次调用由调用方传入当次请求的时间，
// 签名结果只写入当次请求，不缓存也不记录日志。
package signer

import (
	"errors"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// ErrMissingCredential 凭据缺失
var ErrMissingCredential = errors.New("missing credential")

// Signer 请求签名策略
type Signer interface {
	// Sign 为请求添加鉴权信息，now 为当次请求唯一的时间读数
	Sign(req *transport.Request, now time.Time) error
}

// Nop 不做任何签名，用于无需鉴权的提供商
type Nop struct{}

// Sign 实现 Signer
func (Nop) Sign(*transport.Request, time.Time) error {
	return nil
}
