package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tonplace/tonplace"
)

var (
	postParams    tonplace.PostParams
	commentParams tonplace.CommentParams
	feedParams    tonplace.FeedParams
	suggestions   bool

	photoIDs []int64
	videoIDs []int64
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create a post on a user page or, with a negative owner id, a group",
	Args:  cobra.NoArgs,
	RunE: runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
		params := postParams
		params.Attachments = attachments()
		return api.CreatePost(ctx, params)
	}),
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		params := commentParams
		params.PostID = id
		params.Attachments = attachments()
		return api.WriteComment(ctx, params)
	}),
}

var getPostCmd = &cobra.Command{
	Use:   "get-post <post-id>...",
	Short: "Show posts",
	Args:  cobra.MinimumNArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		return fetchAll(ctx, args, api.GetPost)
	}),
}

var readCmd = &cobra.Command{
	Use:   "read <post-id>...",
	Short: "Mark posts as read",
	Args:  cobra.MinimumNArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		ids, err := parseIDs(args)
		if err != nil {
			return nil, err
		}
		if len(ids) == 1 {
			return api.ReadPost(ctx, ids[0])
		}
		return api.ReadPosts(ctx, ids)
	}),
}

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return api.Like(ctx, id)
	}),
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Remove a like from a post",
	Args:  cobra.ExactArgs(1),
	RunE: runAPI(func(ctx context.Context, api tonplace.API, args []string) (*tonplace.Result, error) {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return api.Unlike(ctx, id)
	}),
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show a page of the feed",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		switch feedParams.Section {
		case tonplace.FeedFollowing, tonplace.FeedSuggestions, tonplace.FeedLiked:
			return nil
		default:
			return fmt.Errorf("invalid feed section: %s", feedParams.Section)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		params := feedParams
		if cmd.Flags().Changed("suggestions") {
			params.Suggestions = &suggestions
		}
		return runAPI(func(ctx context.Context, api tonplace.API, _ []string) (*tonplace.Result, error) {
			return api.GetFeed(ctx, params)
		})(cmd, args)
	},
}

// attachments collects the --photo and --video flags in that order.
func attachments() *tonplace.Attachments {
	a := tonplace.NewAttachments()
	for _, id := range photoIDs {
		a.AddPhoto(id)
	}
	for _, id := range videoIDs {
		a.AddVideo(id)
	}
	return a
}

func init() {
	rootCmd.AddCommand(postCmd, commentCmd, getPostCmd, readCmd, likeCmd, unlikeCmd, feedCmd)

	postCmd.Flags().Int64Var(&postParams.OwnerID, "owner", 0, "page owner id, negative for a group")
	postCmd.Flags().StringVar(&postParams.Text, "text", "", "post text")
	postCmd.Flags().Int64Var(&postParams.ParentID, "parent", 0, "reposted post id")
	postCmd.Flags().IntVar(&postParams.Timer, "timer", 0, "publication delay")
	postCmd.Flags().Int64SliceVar(&photoIDs, "photo", nil, "attached photo ids")
	postCmd.Flags().Int64SliceVar(&videoIDs, "video", nil, "attached video ids")
	_ = postCmd.MarkFlagRequired("owner")

	commentCmd.Flags().StringVar(&commentParams.Text, "text", "", "comment text")
	commentCmd.Flags().Int64Var(&commentParams.ReplyTo, "reply-to", 0, "comment id to reply to")
	commentCmd.Flags().Int64Var(&commentParams.GroupID, "group", 0, "comment on behalf of a group")
	commentCmd.Flags().Int64SliceVar(&photoIDs, "photo", nil, "attached photo ids")
	commentCmd.Flags().Int64SliceVar(&videoIDs, "video", nil, "attached video ids")

	feedCmd.Flags().StringVar(&feedParams.Section, "section", tonplace.FeedFollowing, "feed section (following, suggestions, liked)")
	feedCmd.Flags().IntVar(&feedParams.StartFrom, "start", 0, "offset of the first post")
	feedCmd.Flags().BoolVar(&suggestions, "suggestions", false, "mix suggestions into the feed")
	feedCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
}
