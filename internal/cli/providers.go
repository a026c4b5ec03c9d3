package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newProvidersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "列出翻译提供商及其能力和凭据状态",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Provider", "Auth", "Languages", "Detect", "TTS", "Credentials"})

			ok := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()

			for _, c := range a.factory.Capabilities() {
				name := c.Name
				if name == a.provider {
					name += " *"
				}

				status := ok("ok")
				missing, err := a.config.MissingCredentials(c.Name)
				if err != nil {
					return err
				}
				if len(missing) > 0 {
					status = bad("missing " + strings.Join(missing, ", "))
				}

				t.AppendRow(table.Row{name, c.Auth, len(c.SupportedLanguages), yesNo(c.DetectsSource), yesNo(c.TTS), status})
			}

			t.Render()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
