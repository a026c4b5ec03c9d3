package tencentsmart

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-translator-services/internal/test"
	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

func newProvider(server *test.MockProviderServer) *Provider {
	config := Config{}
	config.Endpoint = server.URL
	return New(config, providers.WithTransport(test.NewTransport()))
}

func TestQueryDetectsSource(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"header":{"type":"auto_translation","ret_code":"succ"},"auto_translation":["你好","世界"],"src_lang":"en","tgt_lang":"zh"}`)

	result, err := translator.New(newProvider(server)).
		Translate(context.Background(), "Hello\nWorld", languages.Auto, languages.ChineseSimplified)
	require.NoError(t, err)

	assert.Equal(t, Name, result.Engine)
	assert.Equal(t, languages.English, result.From)
	assert.Equal(t, []string{"Hello", "World"}, result.Origin.Paragraphs)
	assert.Equal(t, []string{"你好", "世界"}, result.Trans.Paragraphs)

	req := server.Last(t)
	assert.Equal(t, []string{"application/json"}, req.Header.Values("Content-Type"))
	assert.Equal(t, []string{userAgent}, req.Header.Values("User-Agent"))
	assert.Equal(t, referer, req.Header.Get("Referer"))
	assert.Empty(t, req.Header.Get("Authorization"))

	var sent request
	require.NoError(t, json.Unmarshal(req.Body, &sent))
	assert.Equal(t, "auto_translation", sent.Header.Fn)
	assert.Equal(t, DefaultClientKey, sent.Header.ClientKey)
	assert.Equal(t, []string{"Hello\nWorld"}, sent.Source.TextList)
	assert.Equal(t, "auto", sent.Source.Lang)
	assert.Equal(t, "zh", sent.Target.Lang)
}

func TestUnmappedLanguageFallsBackToAuto(t *testing.T) {
	server := test.NewMockProviderServer(t)
	server.Respond(http.StatusOK, `{"header":{"ret_code":"succ"},"auto_translation":["x"]}`)

	result, err := newProvider(server).Query(context.Background(), "x", "sw", languages.English)
	require.NoError(t, err)
	assert.Equal(t, languages.Language("sw"), result.From)

	var sent request
	require.NoError(t, json.Unmarshal(server.Last(t).Body, &sent))
	assert.Equal(t, "auto", sent.Source.Lang)
}

func TestSharedChineseCode(t *testing.T) {
	assert.Equal(t, "zh", Table.ToProvider(languages.ChineseTraditional))

	lang, ok := Table.ToCanonical("zh")
	assert.True(t, ok)
	assert.Equal(t, languages.ChineseSimplified, lang)
}

func TestQueryRetCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want translator.ErrorType
	}{
		{"error", `{"header":{"ret_code":"error"}}`, translator.ErrAPIServer},
		{"other", `{"header":{"ret_code":"need_login"}}`, translator.ErrUnknown},
		{"empty", `{"header":{"ret_code":"succ"},"auto_translation":[]}`, translator.ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := test.NewMockProviderServer(t)
			server.Respond(http.StatusOK, tt.body)

			_, err := translator.New(newProvider(server)).
				Translate(context.Background(), "hi", languages.English, languages.ChineseSimplified)
			assert.Equal(t, tt.want, translator.TypeOf(err))
		})
	}
}

func TestQueryMalformedBody(t *testing.T) {
	stub := transport.Func(func(_ context.Context, _ *transport.Request) (*transport.Response, error) {
		return &transport.Response{Status: http.StatusOK, Body: []byte(`<html>`)}, nil
	})

	_, err := New(Config{}, providers.WithTransport(stub)).
		Query(context.Background(), "hi", languages.English, languages.Japanese)
	var te *translator.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, translator.ErrUnknown, te.Type)
	assert.Equal(t, "decode response", te.Cause)
}
