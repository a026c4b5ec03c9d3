package detect

import (
	"context"
	"testing"

	lingua "github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
)

func TestLinguaDetect(t *testing.T) {
	d := NewLingua(lingua.English, lingua.Chinese, lingua.German, lingua.Japanese)

	lang, err := d.Detect(context.Background(), "The quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Equal(t, languages.English, lang)

	lang, err = d.Detect(context.Background(), "今天天气很好，我们一起去公园散步吧")
	require.NoError(t, err)
	assert.Equal(t, languages.ChineseSimplified, lang)
}

func TestLinguaShortTextIsAuto(t *testing.T) {
	d := NewLingua(lingua.English, lingua.German)

	lang, err := d.Detect(context.Background(), "  hi ")
	require.NoError(t, err)
	assert.Equal(t, languages.Auto, lang)
}

func TestLinguaMinLetters(t *testing.T) {
	d := NewLingua(lingua.English, lingua.Chinese).WithMinLetters(2)

	lang, err := d.Detect(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, languages.ChineseSimplified, lang)

	lang, err = NewLingua(lingua.English, lingua.Chinese).Detect(context.Background(), "你好")
	require.NoError(t, err)
	assert.Equal(t, languages.Auto, lang)
}

func TestLinguaCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lang, err := NewLingua(lingua.English, lingua.German).Detect(ctx, "some longer english text")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, languages.Auto, lang)
}

func TestFixed(t *testing.T) {
	lang, err := Fixed(languages.Japanese).Detect(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, languages.Japanese, lang)
}
