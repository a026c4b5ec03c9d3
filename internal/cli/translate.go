package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/translator"
)

// outcome 单个提供商的翻译结果
type outcome struct {
	Provider string             `json:"provider"`
	Result   *translator.Result `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func newTranslateCommand(a *app) *cobra.Command {
	var (
		from       string
		to         string
		asJSON     bool
		showTTS    bool
		compareAll []string
	)

	cmd := &cobra.Command{
		Use:   "translate [flags] [text...]",
		Short: "翻译文本",
		Long: `翻译命令行参数中的文本；没有参数时从标准输入读取。

示例:
  translator translate -t zh-CN "Hello World"
  echo "こんにちは" | translator translate -p baidu -t en
  translator translate --compare baidu,volc,tencent-smart -t ja "Good morning"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("from") {
				from = a.config.SourceLang
			}
			if !cmd.Flags().Changed("to") {
				to = a.config.TargetLang
			}
			source, err := parseLanguage(from)
			if err != nil {
				return err
			}
			target, err := parseLanguage(to)
			if err != nil {
				return err
			}

			names := compareAll
			if len(names) == 0 {
				names = []string{a.provider}
			}

			outcomes, err := a.translateAll(cmd.Context(), names, text, source, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if len(outcomes) == 1 && outcomes[0].Result != nil {
					return enc.Encode(outcomes[0].Result)
				}
				return enc.Encode(outcomes)
			}

			failed := 0
			for _, o := range outcomes {
				printOutcome(out, o, showTTS)
				if o.Error != "" {
					failed++
				}
			}
			if failed == len(outcomes) {
				return fmt.Errorf("translation failed: %s", outcomes[0].Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "auto", "源语言")
	cmd.Flags().StringVarP(&to, "to", "t", "zh-CN", "目标语言")
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出完整结果")
	cmd.Flags().BoolVar(&showTTS, "tts", false, "显示朗读链接")
	cmd.Flags().StringSliceVar(&compareAll, "compare", nil, "同时调用多个提供商并对比结果")

	return cmd
}

// translateAll 并发调用各提供商，结果按传入顺序返回
func (a *app) translateAll(ctx context.Context, names []string, text string, from, to languages.Language) ([]outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	outcomes := make([]outcome, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i := i
		engine, err := a.factory.CreateEngine(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}

		g.Go(func() error {
			outcomes[i].Provider = engine.Name()
			result, err := engine.Translate(gctx, text, from, to)
			if err != nil {
				outcomes[i].Error = err.Error()
				return nil
			}
			outcomes[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

// parseLanguage 解析语言参数，无法识别时给出相近的候选
func parseLanguage(s string) (languages.Language, error) {
	lang, err := languages.Parse(s)
	if err == nil {
		return lang, nil
	}

	suggestions := languages.Suggest(s)
	if len(suggestions) == 0 {
		return "", err
	}
	names := make([]string, len(suggestions))
	for i, l := range suggestions {
		names[i] = fmt.Sprintf("%s (%s)", l, languages.Name(l))
	}
	return "", fmt.Errorf("%w, did you mean: %s", err, strings.Join(names, ", "))
}

// readText 读取待翻译文本
func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text to translate")
	}
	return text, nil
}

func printOutcome(w io.Writer, o outcome, showTTS bool) {
	header := color.New(color.FgCyan, color.Bold)
	if o.Error != "" {
		header.Fprintf(w, "[%s] ", o.Provider)
		color.New(color.FgRed).Fprintln(w, o.Error)
		return
	}

	r := o.Result
	header.Fprintf(w, "[%s] ", o.Provider)
	color.New(color.Faint).Fprintf(w, "%s -> %s\n", r.From, r.To)
	for _, p := range r.Trans.Paragraphs {
		fmt.Fprintln(w, p)
	}
	if showTTS {
		if r.Origin.TTS != "" {
			color.New(color.Faint).Fprintf(w, "origin tts: %s\n", r.Origin.TTS)
		}
		if r.Trans.TTS != "" {
			color.New(color.Faint).Fprintf(w, "trans tts: %s\n", r.Trans.TTS)
		}
	}
}
