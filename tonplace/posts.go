package tonplace

import (
	"context"
	"fmt"
)

// Feed sections.
const (
	FeedFollowing   = "following"
	FeedSuggestions = "suggestions"
	FeedLiked       = "liked"
)

// PostParams describes a new post. OwnerID is a user page id, or a group id
// negated (group 123 posts as -123).
type PostParams struct {
	OwnerID     int64
	Text        string
	ParentID    int64
	Timer       int
	Attachments *Attachments
}

type postBody struct {
	OwnerID     int64            `json:"ownerId"`
	Text        string           `json:"text"`
	ParentID    int64            `json:"parentId"`
	Attachments []map[string]any `json:"attachments"`
	Timer       int              `json:"timer"`
}

// CommentParams describes a comment on PostID, optionally replying to another
// comment and optionally posted on behalf of a group.
type CommentParams struct {
	PostID      int64
	Text        string
	Attachments *Attachments
	ReplyTo     int64
	GroupID     int64
}

type commentBody struct {
	ParentID    int64            `json:"parentId"`
	ReplyTo     int64            `json:"replyTo"`
	Text        string           `json:"text"`
	Attachments []map[string]any `json:"attachments"`
	GroupID     int64            `json:"groupId"`
}

// FeedParams selects one page of a feed section. Suggestions defaults to
// false for every section except FeedSuggestions, where it is sent as null.
type FeedParams struct {
	Section     string
	StartFrom   int
	Suggestions *bool
}

type feedBody struct {
	Section     string `json:"section"`
	StartFrom   int    `json:"startFrom"`
	Suggestions *bool  `json:"suggestions"`
}

type readBody struct {
	Posts []int64 `json:"posts"`
}

// CreatePost publishes a post.
//
// The request primitive retries on failure and the API has no idempotency
// key, so a post may be created more than once when a response is lost.
func (c *Client) CreatePost(ctx context.Context, params PostParams) (*Result, error) {
	return c.post(ctx, "posts/new", postBody{
		OwnerID:     params.OwnerID,
		Text:        params.Text,
		ParentID:    params.ParentID,
		Attachments: params.Attachments.List(),
		Timer:       params.Timer,
	})
}

// WriteComment comments on a post. Like CreatePost it is not safe to retry.
func (c *Client) WriteComment(ctx context.Context, params CommentParams) (*Result, error) {
	return c.post(ctx, "posts/new", commentBody{
		ParentID:    params.PostID,
		ReplyTo:     params.ReplyTo,
		Text:        params.Text,
		Attachments: params.Attachments.List(),
		GroupID:     params.GroupID,
	})
}

func (c *Client) GetPost(ctx context.Context, postID int64) (*Result, error) {
	return c.get(ctx, fmt.Sprintf("posts/%d", postID), nil)
}

// ReadPost marks a single post as viewed
func (c *Client) ReadPost(ctx context.Context, postID int64) (*Result, error) {
	return c.ReadPosts(ctx, []int64{postID})
}

// ReadPosts marks posts as viewed, increasing their view counters
func (c *Client) ReadPosts(ctx context.Context, postIDs []int64) (*Result, error) {
	if postIDs == nil {
		postIDs = []int64{}
	}
	return c.post(ctx, "posts/read", readBody{Posts: postIDs})
}

func (c *Client) Like(ctx context.Context, postID int64) (*Result, error) {
	return c.post(ctx, fmt.Sprintf("likes/%d/post/add", postID), nil)
}

func (c *Client) Unlike(ctx context.Context, postID int64) (*Result, error) {
	return c.post(ctx, fmt.Sprintf("likes/%d/post/del", postID), nil)
}

// GetFeed returns one page of the following, suggestions or liked feed
func (c *Client) GetFeed(ctx context.Context, params FeedParams) (*Result, error) {
	suggestions := params.Suggestions
	if suggestions == nil && params.Section != FeedSuggestions {
		off := false
		suggestions = &off
	}

	return c.post(ctx, "feed", feedBody{
		Section:     params.Section,
		StartFrom:   params.StartFrom,
		Suggestions: suggestions,
	})
}
