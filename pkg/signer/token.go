package signer

import (
	"fmt"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// TokenSigner 固定令牌头部鉴权
type TokenSigner struct {
	Header string
	Scheme string
	Token  string
}

// NewTokenSigner 创建令牌签名器，头部值为 scheme + " " + token
func NewTokenSigner(header, scheme, token string) *TokenSigner {
	return &TokenSigner{Header: header, Scheme: scheme, Token: token}
}

// Sign 实现 Signer
func (s *TokenSigner) Sign(req *transport.Request, _ time.Time) error {
	if s.Token == "" {
		return fmt.Errorf("token: %w", ErrMissingCredential)
	}

	value := s.Token
	if s.Scheme != "" {
		value = s.Scheme + " " + s.Token
	}
	req.SetHeader(s.Header, value)
	return nil
}
