package cmd

import (
	"github.com/reelhouse/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	postContent string
	postImage   string
	postYes     bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post commands",
	Long:  "List, create, like and delete posts",
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(app).List(cmd.Context())
	},
}

var postShowCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "Show a post with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(app).Show(cmd.Context(), args[0])
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Long:  "Create a post with text, an image or both. Without either the text is prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(app).Create(cmd.Context(), postContent, postImage)
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(app).Delete(cmd.Context(), args[0], postYes)
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like or unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService(app).Like(cmd.Context(), args[0])
	},
}

func init() {
	postCreateCmd.Flags().StringVar(&postContent, "content", "", "Post text")
	postCreateCmd.Flags().StringVar(&postImage, "image", "", "Path to an image to attach")
	postDeleteCmd.Flags().BoolVarP(&postYes, "yes", "y", false, "Skip the confirmation prompt")

	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postLikeCmd)
}
