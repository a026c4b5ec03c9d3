package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-translator-services/pkg/languages"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/aliyun"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/baidu"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/caiyun"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/tencentsmart"
	"github.com/nerdneilsfield/go-translator-services/pkg/providers/volc"
)

// tables 各提供商的语言代码表，与 config.KnownProviders 顺序一致
var tables = []struct {
	name  string
	table *languages.Table
}{
	{aliyun.Name, aliyun.Table},
	{baidu.Name, baidu.Table},
	{caiyun.Name, caiyun.Table},
	{volc.Name, volc.Table},
	{tencentsmart.Name, tencentsmart.Table},
}

func newLanguagesCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "列出支持的语言及各提供商的语言代码",
		Long: `列出提供商支持的语言。

默认只显示 --provider 指定的提供商；使用 --all 以矩阵形式对比全部提供商。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)

			if all {
				header := table.Row{"Code", "Name"}
				for _, pt := range tables {
					header = append(header, pt.name)
				}
				t.AppendHeader(header)

				for _, lang := range languages.All() {
					row := table.Row{lang, languages.Name(lang)}
					supported := false
					for _, pt := range tables {
						code := pt.table.ToProvider(lang)
						if code != "" {
							supported = true
						}
						row = append(row, code)
					}
					if supported {
						t.AppendRow(row)
					}
				}
				t.Render()
				return nil
			}

			engine, err := a.factory.CreateEngine(a.provider)
			if err != nil {
				return err
			}
			var native *languages.Table
			for _, pt := range tables {
				if pt.name == engine.Name() {
					native = pt.table
				}
			}

			t.SetTitle(engine.Name())
			t.AppendHeader(table.Row{"Code", "Name", "Provider Code"})
			for _, lang := range engine.SupportedLanguages() {
				code := ""
				if native != nil {
					code = native.ToProvider(lang)
				}
				t.AppendRow(table.Row{lang, languages.Name(lang), code})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "对比全部提供商")
	return cmd
}
