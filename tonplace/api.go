package tonplace

import (
	"context"
)

// API defines the TonPlace operations exposed by Client
type API interface {
	// Do sends a raw request through the retrying request primitive
	Do(ctx context.Context, req Request) (*Result, error)

	// Profiles and social graph
	GetMe(ctx context.Context) (*Result, error)
	GetUser(ctx context.Context, userID int64) (*Result, error)
	GetGroup(ctx context.Context, groupID int64) (*Result, error)
	Search(ctx context.Context, params SearchParams) (*Result, error)
	Follow(ctx context.Context, userID int64) (*Result, error)
	Unfollow(ctx context.Context, userID int64) (*Result, error)
	GetFollow(ctx context.Context, params FollowParams) (*Result, error)
	EditProfile(ctx context.Context, edit ProfileEdit) (*Result, error)
	CheckDomain(ctx context.Context, domain string) (*Result, error)
	ChangeDomain(ctx context.Context, domain string) (*Result, error)
	GetReferrals(ctx context.Context) (*Result, error)

	// Posts and feed
	CreatePost(ctx context.Context, params PostParams) (*Result, error)
	WriteComment(ctx context.Context, params CommentParams) (*Result, error)
	GetPost(ctx context.Context, postID int64) (*Result, error)
	ReadPost(ctx context.Context, postID int64) (*Result, error)
	ReadPosts(ctx context.Context, postIDs []int64) (*Result, error)
	Like(ctx context.Context, postID int64) (*Result, error)
	Unlike(ctx context.Context, postID int64) (*Result, error)
	GetFeed(ctx context.Context, params FeedParams) (*Result, error)

	// Account
	GetDialogs(ctx context.Context) (*Result, error)
	GetNotify(ctx context.Context) (*Result, error)
	GetOwnedGroups(ctx context.Context) (*Result, error)
	GetBalance(ctx context.Context) (*Result, error)
	SendTON(ctx context.Context, address string, amount float64) (*Result, error)

	// Media
	UploadPhoto(ctx context.Context, data []byte, opts ...UploadOption) (*Result, error)
	UploadVideo(ctx context.Context, data []byte, opts ...UploadOption) (*Result, error)

	Close() error
}
