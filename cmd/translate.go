package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanekosora-114/Tune-into-English/core/translate"
	"github.com/kanekosora-114/Tune-into-English/internal/app"
	"github.com/kanekosora-114/Tune-into-English/logger"
)

var (
	translateFile  string
	translateLang  string
	translateModel string
	translateLines bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate lyrics read from a file or stdin",
	Long: `Translate lyrics while keeping the line count and LRC time tags.
With --lines every input line is translated as its own item in small batches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		var in io.Reader = cmd.InOrStdin()
		if translateFile != "" {
			f, err := os.Open(translateFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		raw, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read lyrics: %w", err)
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.Pipeline == nil {
			return fmt.Errorf("translation requires OPENAI_API_KEY")
		}

		lang := translateLang
		if lang == "" {
			lang = cfg.TargetLanguage
		}
		out := cmd.OutOrStdout()

		if translateLines {
			lines, err := a.Batch.TranslateLines(cmd.Context(), translate.SplitLines(string(raw)), lang, translateModel)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		}

		translated, err := a.Pipeline.Translate(cmd.Context(), string(raw), lang, translateModel)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, translated)
		return nil
	},
}

func init() {
	translateCmd.Flags().StringVarP(&translateFile, "file", "f", "", "Lyrics file (default stdin)")
	translateCmd.Flags().StringVarP(&translateLang, "lang", "l", "", "Target language (default from TRANSLATE_TARGET_LANGUAGE)")
	translateCmd.Flags().StringVarP(&translateModel, "model", "m", "", "Chat model (default from OPENAI_MODEL)")
	translateCmd.Flags().BoolVar(&translateLines, "lines", false, "Translate line by line in batches")
	rootCmd.AddCommand(translateCmd)
}
