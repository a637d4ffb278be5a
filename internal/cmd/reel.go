package cmd

import (
	"os"

	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/prompter"
	"github.com/reelhouse/cli/pkg/reels"
	"github.com/reelhouse/cli/pkg/service"
	"github.com/spf13/cobra"
)

var reelFilter string

var reelCmd = &cobra.Command{
	Use:   "reel",
	Short: "Reel commands",
}

var reelWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the reel feed",
	Long: `Play the reel feed one reel at a time. Keys:

  j/k or arrows  next/previous reel
  space          pause or resume
  m / u          mute toggle / allow sound
  l / c          like / comment
  d / f          toggle data saver / next filter
  r              retry a failed page
  q              quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := reels.ParseFilter(reelFilter)
		if err != nil {
			return err
		}

		keys, err := prompter.NewKeyReader(os.Stdin)
		if err != nil {
			return err
		}
		defer keys.Close()

		prompt := func(label string) (string, error) {
			resume, err := keys.Suspend()
			if err != nil {
				return "", err
			}
			defer func() {
				if err := resume(); err != nil {
					logger.Warn("Could not restore raw mode", "error", err)
				}
			}()
			return prompter.PromptString(label)
		}

		return service.NewReelService(app).Watch(cmd.Context(), service.WatchOptions{
			Filter: filter,
			Keys:   keys,
			Prompt: prompt,
			CRLF:   keys.Raw(),
		})
	},
}

func init() {
	reelWatchCmd.Flags().StringVar(&reelFilter, "filter", string(reels.ForYou), "Feed filter: for-you, following, mine")
	reelCmd.AddCommand(reelWatchCmd)
}
