package baidu

import (
	"context"
	"crypto/md5"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-translator-services/internal/test"
	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/signer"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

func newProvider(server *test.MockProviderServer, appID, key string) *Provider {
	config := Config{AppID: appID, Key: key}
	config.Endpoint = server.URL
	return New(config,
		providers.WithTransport(test.NewTransport()),
		providers.WithClock(test.FixedClock(test.Instant)))
}

func TestQueryDetectsSource(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"from":"en","to":"zh","trans_result":[{"src":"Hello","dst":"你好"},{"src":"World","dst":"世界"}]}`)

	result, err := translator.New(newProvider(server, "2015063000000001", "12345678")).
		Translate(context.Background(), "Hello\nWorld", languages.Auto, languages.ChineseSimplified)
	require.NoError(t, err)

	assert.Equal(t, Name, result.Engine)
	assert.Equal(t, languages.English, result.From)
	assert.Equal(t, languages.ChineseSimplified, result.To)
	assert.Equal(t, []string{"Hello", "World"}, result.Origin.Paragraphs)
	assert.Equal(t, []string{"你好", "世界"}, result.Trans.Paragraphs)
	assert.Equal(t, "https://fanyi.baidu.com/gettts?lan=en&text=Hello%0AWorld&spd=5", result.Origin.TTS)
	assert.Equal(t, "https://fanyi.baidu.com/gettts?lan=zh&text=%E4%BD%A0%E5%A5%BD%20%E4%B8%96%E7%95%8C&spd=5", result.Trans.TTS)

	req := server.Last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "auto", req.Query.Get("from"))
	assert.Equal(t, "zh", req.Query.Get("to"))
	assert.Equal(t, "Hello\nWorld", req.Query.Get("q"))
	assert.Equal(t, "1704164645000", req.Query.Get("salt"))
	assert.Equal(t, "2015063000000001", req.Query.Get("appid"))
	assert.Equal(t,
		signer.KeyedHash(md5.New, "2015063000000001", "Hello\nWorld", "1704164645000", "12345678"),
		req.Query.Get("sign"))
}

func TestQueryNativeCodes(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"from":"jp","to":"kor","trans_result":[{"src":"こんにちは","dst":"안녕하세요"}]}`)

	result, err := newProvider(server, "id", "key").Query(context.Background(), "こんにちは", languages.Japanese, languages.Korean)
	require.NoError(t, err)

	assert.Equal(t, languages.Japanese, result.From)
	req := server.Last(t)
	assert.Equal(t, "jp", req.Query.Get("from"))
	assert.Equal(t, "kor", req.Query.Get("to"))
}

func TestQueryErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want translator.ErrorType
	}{
		{"invalid user", `{"error_code":"52003","error_msg":"UNAUTHORIZED USER"}`, translator.ErrAuth},
		{"invalid sign", `{"error_code":"54000","error_msg":"Invalid Sign"}`, translator.ErrAuth},
		{"balance", `{"error_code":"54004","error_msg":"balance"}`, translator.ErrUsageLimit},
		{"frequency", `{"error_code":"54003","error_msg":"limit"}`, translator.ErrTooManyRequests},
		{"language", `{"error_code":"58001","error_msg":"lang"}`, translator.ErrUnsupportedLang},
		{"numeric code", `{"error_code":52003}`, translator.ErrAuth},
		{"unknown", `{"error_code":"99999"}`, translator.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := test.NewMockProviderServer(t)
			server.Respond(http.StatusOK, tt.body)

			_, err := translator.New(newProvider(server, "id", "key")).
				Translate(context.Background(), "hi", languages.English, languages.ChineseSimplified)

			var te *translator.Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.want, te.Type)
		})
	}
}

func TestQueryHTTPFailure(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusUnauthorized, ``)

	_, err := newProvider(server, "id", "key").Query(context.Background(), "hi", languages.English, languages.Japanese)
	assert.Equal(t, translator.ErrAuth, translator.TypeOf(err))
}

func TestQueryMissingCredentials(t *testing.T) {
	server := test.NewMockProviderServer(t)

	_, err := newProvider(server, "", "key").Query(context.Background(), "hi", languages.English, languages.Japanese)
	assert.Equal(t, translator.ErrAuth, translator.TypeOf(err))
	assert.Empty(t, server.Requests())
}

func TestTTSFallsBackForAuto(t *testing.T) {
	p := New(Config{})

	assert.Equal(t, "https://fanyi.baidu.com/gettts?lan=zh&text=hi&spd=5", p.tts.URL("hi", languages.Auto))
	assert.Equal(t, "https://fanyi.baidu.com/gettts?lan=cht&text=hi&spd=5", p.tts.URL("hi", languages.ChineseTraditional))
	assert.Equal(t, "https://fanyi.baidu.com/gettts?lan=zh&text=hi&spd=5", p.tts.URL("hi", "sw"))
}

func TestQueryRetryUsesFreshSalt(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.RespondFunc(func(r test.RecordedRequest) (int, string) {
		if len(server.Requests()) == 1 {
			return http.StatusBadGateway, `{}`
		}
		return http.StatusOK, `{"from":"en","to":"zh","trans_result":[{"src":"hello","dst":"你好"}]}`
	})

	tick := test.Instant
	config := Config{AppID: "2015063000000001", Key: "12345678"}
	config.Endpoint = server.URL
	p := New(config,
		providers.WithTransport(test.NewRetryTransport(2)),
		providers.WithClock(func() time.Time {
			tick = tick.Add(time.Millisecond)
			return tick
		}))

	_, err := p.Query(context.Background(), "hello", languages.Auto, languages.ChineseSimplified)
	require.NoError(t, err)

	reqs := server.Requests()
	require.Len(t, reqs, 2)
	assert.NotEqual(t, reqs[0].Query.Get("salt"), reqs[1].Query.Get("salt"))
	last := reqs[1].Query
	assert.Equal(t, signer.KeyedHash(md5.New, "2015063000000001", "hello", last.Get("salt"), "12345678"), last.Get("sign"))
}
