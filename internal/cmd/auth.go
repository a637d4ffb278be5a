package cmd

import (
	"github.com/reelhouse/cli/pkg/service"
	"github.com/spf13/cobra"
)

var loginToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage the Reelhouse session used by every other command",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a token from the web app",
	Long:  "Store a session token. Without --token it is read from the terminal without echo.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(app).Login(cmd.Context(), loginToken)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(app).Logout()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(app).Status(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Session token (prompted when omitted)")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}
