package signer

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aliyunParams = map[string]string{
	"Action":           "TranslateGeneral",
	"Version":          "2018-10-12",
	"Format":           "JSON",
	"AccessKeyId":      "testid",
	"SignatureNonce":   "3ee8c1b8-83d3-44af-a94f-4e0ad82fd6cf",
	"Timestamp":        "2016-02-23T12:46:24Z",
	"SignatureMethod":  "HMAC-SHA1",
	"SignatureVersion": "1.0",
	"FormatType":       "text",
	"Scene":            "general",
	"SourceLanguage":   "en",
	"TargetLanguage":   "zh",
	"SourceText":       "Hello world!\n(it's *me*)",
}

func TestPercentEncode(t *testing.T) {
	tests := map[string]string{
		"abcXYZ019-_.~": "abcXYZ019-_.~",
		"a b":           "a+b",
		"!'()*":         "%21%27%28%29%2A",
		"/":             "%2F",
		"a+b":           "a%2Bb",
		"100%":          "100%25",
		"中":             "%E4%B8%AD",
		"\n":            "%0A",
	}
	for in, want := range tests {
		assert.Equal(t, want, PercentEncode(in), "input %q", in)
	}

	assert.Equal(t, "a%20b", EscapeRFC3986("a b"))
}

func TestCanonicalQueryOrderIndependent(t *testing.T) {
	keys := make([]string, 0, len(aliyunParams))
	for k := range aliyunParams {
		keys = append(keys, k)
	}

	forward := make(map[string]string)
	for _, k := range keys {
		forward[k] = aliyunParams[k]
	}
	backward := make(map[string]string)
	for i := len(keys) - 1; i >= 0; i-- {
		backward[keys[i]] = aliyunParams[keys[i]]
	}

	assert.Equal(t, CanonicalQuery(forward), CanonicalQuery(backward))
	assert.Equal(t,
		"AccessKeyId=testid&Action=TranslateGeneral&Format=JSON&FormatType=text&Scene=general&SignatureMethod=HMAC-SHA1&SignatureNonce=3ee8c1b8-83d3-44af-a94f-4e0ad82fd6cf&SignatureVersion=1.0&SourceLanguage=en&SourceText=Hello+world%21%0A%28it%27s+%2Ame%2A%29&TargetLanguage=zh&Timestamp=2016-02-23T12%3A46%3A24Z&Version=2018-10-12",
		CanonicalQuery(aliyunParams))
}

func TestHMACSHA1Signature(t *testing.T) {
	assert.True(t, strings.HasPrefix(StringToSign("post", aliyunParams), "POST&%2F&AccessKeyId%3Dtestid%26"))
	assert.Equal(t, "iD/XfEdQD6BFGqA8E+Og22jpOZk=", HMACSHA1Signature("POST", aliyunParams, "testsecret"))
}

func TestQuerySignerSignsQueryAndForm(t *testing.T) {
	query := url.Values{}
	form := url.Values{}
	for k, v := range aliyunParams {
		switch k {
		case "FormatType", "Scene", "SourceLanguage", "TargetLanguage", "SourceText":
			form.Set(k, v)
		default:
			query.Set(k, v)
		}
	}

	req := transport.NewRequest(http.MethodPost, "https://mt.aliyuncs.com")
	req.Query = query
	req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
	req.Body = []byte(form.Encode())

	require.NoError(t, NewQuerySigner("testsecret").Sign(req, time.Now()))
	assert.Equal(t, "iD/XfEdQD6BFGqA8E+Og22jpOZk=", req.Query.Get("Signature"))

	// 重新签名不应把旧签名纳入计算
	require.NoError(t, NewQuerySigner("testsecret").Sign(req, time.Now()))
	assert.Equal(t, "iD/XfEdQD6BFGqA8E+Og22jpOZk=", req.Query.Get("Signature"))
}

func TestQuerySignerMissingSecret(t *testing.T) {
	err := NewQuerySigner("").Sign(transport.NewRequest(http.MethodPost, "https://mt.aliyuncs.com"), time.Now())
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestKeyedHash(t *testing.T) {
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4",
		KeyedHash(md5.New, "2015063000000001", "apple", "1435660288", "12345678"))
}

func TestMD5Signer(t *testing.T) {
	req := transport.NewRequest(http.MethodGet, "https://api.fanyi.baidu.com/api/trans/vip/translate")
	req.Query.Set("q", "apple")
	req.Query.Set("salt", "1435660288")

	require.NoError(t, NewMD5Signer("2015063000000001", "12345678").Sign(req, time.Now()))
	assert.Equal(t, "2015063000000001", req.Query.Get("appid"))
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4", req.Query.Get("sign"))
}

func TestMD5SignerRequiresSalt(t *testing.T) {
	req := transport.NewRequest(http.MethodGet, "https://api.fanyi.baidu.com")
	req.Query.Set("q", "apple")
	assert.Error(t, NewMD5Signer("id", "key").Sign(req, time.Now()))

	assert.True(t, errors.Is(NewMD5Signer("", "key").Sign(req, time.Now()), ErrMissingCredential))
}

func TestDeriveSigningKey(t *testing.T) {
	key := DeriveSigningKey("secretkey", "20240102", "cn-north-1", "translate")
	assert.Equal(t, "76866b445b42b7da74192e92e98bc0646ab60434d2b0c147d0dd720622d3c646", hex.EncodeToString(key))

	// 只依赖 (secret, date, region, service)
	assert.Equal(t, key, DeriveSigningKey("secretkey", "20240102", "cn-north-1", "translate"))
}

func TestV4SignatureDeterministicAndAvalanche(t *testing.T) {
	base := V4Signature("secretkey", "20240102", "cn-north-1", "translate", "payload")
	assert.Equal(t, base, V4Signature("secretkey", "20240102", "cn-north-1", "translate", "payload"))

	variants := []string{
		V4Signature("secretkez", "20240102", "cn-north-1", "translate", "payload"),
		V4Signature("secretkey", "20240103", "cn-north-1", "translate", "payload"),
		V4Signature("secretkey", "20240102", "cn-north-2", "translate", "payload"),
		V4Signature("secretkey", "20240102", "cn-north-1", "translatf", "payload"),
		V4Signature("secretkey", "20240102", "cn-north-1", "translate", "payloae"),
	}
	for i, v := range variants {
		assert.NotEqual(t, base, v, "variant %d", i)
	}
}

func TestCanonicalHeaders(t *testing.T) {
	block, signed := CanonicalHeaders(map[string]string{
		"X-Date":       "20240102T030405Z",
		"Host":         "open.volcengineapi.com",
		"Content-Type": "  application/json   charset=utf-8 ",
	})

	assert.Equal(t, "content-type:application/json charset=utf-8\nhost:open.volcengineapi.com\nx-date:20240102T030405Z\n", block)
	assert.Equal(t, "content-type;host;x-date", signed)
}

func TestV4SignerSign(t *testing.T) {
	body := []byte(`{"TargetLanguage":"zh","TextList":["Hello"]}`)
	req := transport.NewRequest(http.MethodPost, "https://open.volcengineapi.com")
	req.Query.Set("Action", "TranslateText")
	req.Query.Set("Version", "2020-06-01")
	req.SetHeader("Content-Type", "application/json")
	req.Body = body

	now := time.Date(2024, 1, 2, 11, 4, 5, 999, time.FixedZone("CST", 8*3600))
	require.NoError(t, NewV4Signer("AKID", "secretkey", "cn-north-1", "translate").Sign(req, now))

	sum := sha256.Sum256(body)
	assert.Equal(t, "20240102T030405Z", req.GetHeader("X-Date"))
	assert.Equal(t, hex.EncodeToString(sum[:]), req.GetHeader("X-Content-Sha256"))
	assert.Equal(t,
		"HMAC-SHA256 Credential=AKID/20240102/cn-north-1/translate/request, SignedHeaders=content-type;host;x-content-sha256;x-date, Signature=4a3264705f0670faaee12148cfc239b3d7121dd47d5bd4f7f9f35e2dfa6b950b",
		req.GetHeader("Authorization"))
}

func TestV4SignerUsesSingleInstant(t *testing.T) {
	req := transport.NewRequest(http.MethodPost, "https://open.volcengineapi.com")
	now := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	require.NoError(t, NewV4Signer("AKID", "secret", "cn-north-1", "translate").Sign(req, now))

	assert.Equal(t, "20241231T235959Z", req.GetHeader("X-Date"))
	assert.Contains(t, req.GetHeader("Authorization"), "Credential=AKID/20241231/")
}

func TestV4SignerMissingCredential(t *testing.T) {
	req := transport.NewRequest(http.MethodPost, "https://open.volcengineapi.com")
	assert.True(t, errors.Is(NewV4Signer("", "s", "r", "t").Sign(req, time.Now()), ErrMissingCredential))
	assert.True(t, errors.Is(NewV4Signer("a", "", "r", "t").Sign(req, time.Now()), ErrMissingCredential))
}

func TestTokenSigner(t *testing.T) {
	req := transport.NewRequest(http.MethodPost, "https://api.interpreter.caiyunai.com/v1/translator")
	require.NoError(t, NewTokenSigner("x-authorization", "token", "abc").Sign(req, time.Now()))
	assert.Equal(t, []string{"token abc"}, req.Header["x-authorization"])

	assert.True(t, errors.Is(NewTokenSigner("x-authorization", "token", "").Sign(req, time.Now()), ErrMissingCredential))
}
