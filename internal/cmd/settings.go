package cmd

import (
	"github.com/reelhouse/cli/pkg/service"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage client preferences",
	Long:  "Show and change preferences stored on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).Show()
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).Show()
	},
}

var dataSaverCmd = &cobra.Command{
	Use:       "data-saver <on|off>",
	Short:     "Only download the reel being watched",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := service.ParseOnOff(args[0])
		if err != nil {
			return err
		}
		return service.NewSettingsService(app).SetDataSaver(on)
	},
}

var videoQualityCmd = &cobra.Command{
	Use:       "video-quality <auto|low|medium|high>",
	Short:     "Set the preferred reel rendition",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"auto", "low", "medium", "high"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).SetVideoQuality(args[0])
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSettingsService(app).Reset()
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(dataSaverCmd)
	settingsCmd.AddCommand(videoQualityCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}
