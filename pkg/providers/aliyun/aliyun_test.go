package aliyun

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-translator-services/internal/test"
	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

func newProvider(server *test.MockProviderServer, secret string) *Provider {
	config := Config{AccessKeyID: "test-id", AccessKeySecret: secret}
	config.Endpoint = server.URL
	return New(config,
		providers.WithTransport(test.NewTransport()),
		providers.WithClock(test.FixedClock(test.Instant)))
}

func TestQuerySignsRequest(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"RequestId":"r1","Code":"200","Data":{"WordCount":"11","Translated":"你好\n世界"}}`)

	result, err := translator.New(newProvider(server, "testsecret")).
		Translate(context.Background(), "Hello\nWorld", languages.Auto, languages.ChineseSimplified)
	require.NoError(t, err)

	assert.Equal(t, Name, result.Engine)
	assert.Equal(t, languages.Auto, result.From)
	assert.Equal(t, []string{"Hello", "World"}, result.Origin.Paragraphs)
	assert.Equal(t, []string{"你好\n世界"}, result.Trans.Paragraphs)

	req := server.Last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "TranslateGeneral", req.Query.Get("Action"))
	assert.Equal(t, "2018-10-12", req.Query.Get("Version"))
	assert.Equal(t, "test-id", req.Query.Get("AccessKeyId"))
	assert.Equal(t, "2024-01-02T03:04:05Z", req.Query.Get("Timestamp"))
	assert.NotEmpty(t, req.Query.Get("SignatureNonce"))

	form, err := url.ParseQuery(string(req.Body))
	require.NoError(t, err)
	assert.Equal(t, "auto", form.Get("SourceLanguage"))
	assert.Equal(t, "zh", form.Get("TargetLanguage"))
	assert.Equal(t, "Hello\nWorld", form.Get("SourceText"))

	// 服务端按 URL 参数与表单参数的并集重新计算签名
	params := map[string]string{}
	for k := range req.Query {
		if k != "Signature" {
			params[k] = req.Query.Get(k)
		}
	}
	for k := range form {
		params[k] = form.Get(k)
	}
	assert.Equal(t, signer.HMACSHA1Signature(http.MethodPost, params, "testsecret"), req.Query.Get("Signature"))
}

func TestQueryRetryUsesFreshNonce(t *testing.T) {
	server := test.NewMockProviderServer(t)
	seen := map[string]bool{}
	server.RespondFunc(func(r test.RecordedRequest) (int, string) {
		nonce := r.Query.Get("SignatureNonce")
		if seen[nonce] {
			return http.StatusBadRequest, `{"Code":"SignatureNonceUsed","Message":"nonce used"}`
		}
		seen[nonce] = true
		if len(seen) == 1 {
			return http.StatusServiceUnavailable, `{}`
		}
		return http.StatusOK, `{"Code":"200","Data":{"Translated":"你好"}}`
	})

	config := Config{AccessKeyID: "test-id", AccessKeySecret: "testsecret"}
	config.Endpoint = server.URL
	p := New(config, providers.WithTransport(test.NewRetryTransport(2)))

	result, err := p.Query(context.Background(), "hello", languages.English, languages.ChineseSimplified)
	require.NoError(t, err)
	assert.Equal(t, []string{"你好"}, result.Trans.Paragraphs)

	reqs := server.Requests()
	require.Len(t, reqs, 2)
	assert.NotEqual(t, reqs[0].Query.Get("SignatureNonce"), reqs[1].Query.Get("SignatureNonce"))
	assert.NotEqual(t, reqs[0].Query.Get("Signature"), reqs[1].Query.Get("Signature"))
}

func TestQueryUsesFreshNonce(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"Code":"200","Data":{"Translated":"x"}}`)
	p := newProvider(server, "testsecret")

	for i := 0; i < 2; i++ {
		_, err := p.Query(context.Background(), "x", languages.English, languages.Japanese)
		require.NoError(t, err)
	}

	reqs := server.Requests()
	require.Len(t, reqs, 2)
	assert.NotEqual(t, reqs[0].Query.Get("SignatureNonce"), reqs[1].Query.Get("SignatureNonce"))
}

func TestQueryErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   translator.ErrorType
	}{
		{"invalid key", http.StatusOK, `{"Code":"InvalidAccessKeyId.NotFound"}`, translator.ErrAuth},
		{"nonce reused", http.StatusOK, `{"Code":"SignatureNonceUsed"}`, translator.ErrAuth},
		{"arrearage", http.StatusOK, `{"Code":"Account.Arrearage"}`, translator.ErrUsageLimit},
		{"unknown code", http.StatusOK, `{"Code":"Something.New"}`, translator.ErrUnknown},
		{"numeric code", http.StatusOK, `{"Code":10001}`, translator.ErrUnknown},
		{"code in 4xx body", http.StatusBadRequest, `{"Code":"InvalidAccessKeyId.NotFound"}`, translator.ErrAuth},
		{"unauthorized", http.StatusUnauthorized, `not json`, translator.ErrAuth},
		{"server error", http.StatusServiceUnavailable, ``, translator.ErrUsageLimit},
		{"malformed", http.StatusOK, `{`, translator.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := test.NewMockProviderServer(t)
			server.Respond(tt.status, tt.body)

			_, err := translator.New(newProvider(server, "testsecret")).
				Translate(context.Background(), "hi", languages.English, languages.ChineseSimplified)
			assert.Equal(t, tt.want, translator.TypeOf(err))
		})
	}
}

func TestQueryMissingSecret(t *testing.T) {
	server := test.NewMockProviderServer(t)

	_, err := newProvider(server, "").Query(context.Background(), "hi", languages.English, languages.Japanese)
	assert.Equal(t, translator.ErrAuth, translator.TypeOf(err))
	assert.Empty(t, server.Requests())
}

func TestUnmappedLanguageIsEmpty(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"Code":"200","Data":{"Translated":"x"}}`)

	_, err := newProvider(server, "s").Query(context.Background(), "x", "sw", languages.English)
	require.NoError(t, err)

	form, err := url.ParseQuery(string(server.Last(t).Body))
	require.NoError(t, err)
	assert.Equal(t, "", form.Get("SourceLanguage"))
}

func TestTable(t *testing.T) {
	assert.Equal(t, "zh-tw", Table.ToProvider(languages.ChineseTraditional))
	assert.Equal(t, "bul", Table.ToProvider("bg"))

	lang, ok := Table.ToCanonical("vie")
	assert.True(t, ok)
	assert.Equal(t, languages.Language("vi"), lang)

	supported := New(Config{}).SupportedLanguages()
	assert.Equal(t, languages.Auto, supported[0])
	assert.Equal(t, supported, New(Config{}).SupportedLanguages())
}
