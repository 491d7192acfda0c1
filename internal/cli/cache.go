package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matchbench/pkg/cache"
)

// cacheKeyPatterns match every key written by cache.DefaultKeyer.
var cacheKeyPatterns = []string{"match:*", "dot:*"}

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached matchings and diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ch.Close()

			switch ch := ch.(type) {
			case *cache.FileCache:
				n, err := ch.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Directory: %s", ch.Dir())
			case *cache.RedisCache:
				total := 0
				for _, pattern := range cacheKeyPatterns {
					n, err := ch.Clear(cmd.Context(), pattern)
					if err != nil {
						return fmt.Errorf("clear cache: %w", err)
					}
					total += n
				}
				printSuccess("Cleared %d cached entries", total)
				printDetail("Redis: %s", c.Config.Cache.RedisURL)
			default:
				printInfo("Cache is disabled")
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case cache.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), c.Config.Cache.RedisURL)
			case cache.BackendFile:
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			default:
				printInfo("Cache is disabled")
			}
			return nil
		},
	}
}
