package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newsbalance/internal/i18n"
)

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or change the UI theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				theme, err := app.Store.Theme()
				if err != nil {
					return err
				}
				fmt.Println(theme)
				return nil
			}

			switch args[0] {
			case "toggle":
				theme, err := app.Store.ToggleTheme()
				if err != nil {
					return err
				}
				fmt.Println(theme)
				return nil
			default:
				if err := app.Store.SetTheme(args[0]); err != nil {
					return err
				}
				fmt.Println(args[0])
				return nil
			}
		},
	}
}

func newLangCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [locale]",
		Short: "Show or change the interface language",
		Long: fmt.Sprintf("Shows or changes the interface language. Supported: %s.",
			strings.Join(i18n.SupportedLocales, ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println(app.T.Locale())
				return nil
			}

			locale := args[0]
			if !i18n.Supported(locale) {
				return fmt.Errorf("unsupported locale %q (want one of %s)",
					locale, strings.Join(i18n.SupportedLocales, ", "))
			}

			if err := app.Store.SetLocale(locale); err != nil {
				return err
			}
			translator, err := i18n.New(locale)
			if err != nil {
				return err
			}
			app.T = translator
			fmt.Println(locale)
			return nil
		},
	}
}
