package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanekosora-114/Tune-into-English/cache"
	"github.com/kanekosora-114/Tune-into-English/config"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis lyrics cache backend",
	Long:  `Connect to the configured Redis server and run a set / get / delete round trip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Redis: %s, DB: %d\n", cfg.RedisAddr(), cfg.RedisDB)

		if err := cache.ConnectRedis(cfg); err != nil {
			return err
		}
		defer cache.CloseRedis()
		fmt.Fprintln(out, "Connected.")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := cache.CheckRedis(ctx, cache.RedisClient); err != nil {
			return err
		}
		fmt.Fprintln(out, "Read/write check passed.")
		if !cfg.CacheEnabled() {
			fmt.Fprintln(out, "Note: LYRICS_CACHE_TTL_SECONDS is 0, the lyrics cache is disabled.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
