package cmd

import (
	"strings"

	"github.com/reelhouse/cli/pkg/service"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on posts",
	Long:  "Add comments and replies and like them",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <post-id> <text...>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewCommentService(app).Add(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var commentLikeCmd = &cobra.Command{
	Use:   "like <post-id> <comment-id>",
	Short: "Like or unlike a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewCommentService(app).Like(cmd.Context(), args[0], args[1])
	},
}

var commentReplyCmd = &cobra.Command{
	Use:   "reply <post-id> <comment-id> <text...>",
	Short: "Reply to a comment",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewCommentService(app).Reply(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
	},
}

var commentLikeReplyCmd = &cobra.Command{
	Use:   "like-reply <post-id> <comment-id> <reply-id>",
	Short: "Like or unlike a reply",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewCommentService(app).LikeReply(cmd.Context(), args[0], args[1], args[2])
	},
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentLikeCmd)
	commentCmd.AddCommand(commentReplyCmd)
	commentCmd.AddCommand(commentLikeReplyCmd)
}
