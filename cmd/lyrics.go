package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanekosora-114/Tune-into-English/internal/app"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

var (
	lyricsTitle      string
	lyricsArtist     string
	lyricsAlbum      string
	lyricsDurationMS int64
	lyricsISRC       string
	lyricsTranslate  bool
	lyricsLang       string
	lyricsModel      string
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "Look up lyrics for a track",
	Long: `Resolve lyrics from LRCLIB using exact lookups first and a scored search
as fallback. With --translate the result is also translated, keeping its
line layout and time tags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		q := model.TrackQuery{
			Title:      lyricsTitle,
			Artist:     lyricsArtist,
			Album:      lyricsAlbum,
			DurationMS: lyricsDurationMS,
			ISRC:       lyricsISRC,
		}
		res, ok := a.Lyrics.Resolve(cmd.Context(), q)
		if !ok {
			return fmt.Errorf("lyrics not found for %q by %q", lyricsTitle, lyricsArtist)
		}

		out := cmd.OutOrStdout()
		if !lyricsTranslate {
			fmt.Fprintln(out, res.Text)
			return nil
		}
		if a.Pipeline == nil {
			return fmt.Errorf("translation requires OPENAI_API_KEY")
		}
		lang := lyricsLang
		if lang == "" {
			lang = cfg.TargetLanguage
		}
		translated, err := a.Pipeline.Translate(cmd.Context(), res.Text, lang, lyricsModel)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, translated)
		return nil
	},
}

func init() {
	lyricsCmd.Flags().StringVarP(&lyricsTitle, "title", "t", "", "Track title")
	lyricsCmd.Flags().StringVarP(&lyricsArtist, "artist", "a", "", "Artist name")
	lyricsCmd.Flags().StringVar(&lyricsAlbum, "album", "", "Album name")
	lyricsCmd.Flags().Int64Var(&lyricsDurationMS, "duration-ms", 0, "Track duration in milliseconds")
	lyricsCmd.Flags().StringVar(&lyricsISRC, "isrc", "", "Track ISRC")
	lyricsCmd.Flags().BoolVar(&lyricsTranslate, "translate", false, "Translate the lyrics")
	lyricsCmd.Flags().StringVarP(&lyricsLang, "lang", "l", "", "Target language (default from TRANSLATE_TARGET_LANGUAGE)")
	lyricsCmd.Flags().StringVarP(&lyricsModel, "model", "m", "", "Chat model (default from OPENAI_MODEL)")
	lyricsCmd.MarkFlagRequired("title")
	lyricsCmd.MarkFlagRequired("artist")
	rootCmd.AddCommand(lyricsCmd)
}
