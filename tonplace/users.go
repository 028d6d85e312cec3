package tonplace

import (
	"context"
	"fmt"
	"net/http"
)

// Search tabs.
const (
	TabExplore = "explore"
	TabPeoples = "peoples"
	TabGroups  = "groups"
)

// Search orderings.
const (
	SortPopular = "popular"
	SortNew     = "new"
	SortOnline  = "online"
)

// Follow list directions.
const (
	FollowersInbox  = "inbox"  // followers
	FollowersOutbox = "outbox" // following
)

// SearchParams selects one page (30 items) of search results.
type SearchParams struct {
	Tab       string
	Sort      string // defaults to SortPopular
	Query     string
	City      int
	StartFrom int
}

type searchBody struct {
	Query     string `json:"query"`
	StartFrom int    `json:"startFrom"`
	Tab       string `json:"tab"`
	Sort      string `json:"sort"`
	City      int    `json:"city"`
}

// FollowParams selects one page of a user's followers or followings.
type FollowParams struct {
	UserID    int64
	Type      string // defaults to FollowersInbox
	StartFrom int
	Query     string
}

type followBody struct {
	Query     string `json:"query"`
	Type      string `json:"type"`
	StartFrom int    `json:"startFrom"`
}

// ProfileEdit is the full set of editable profile fields.
type ProfileEdit struct {
	BirthDay   int    `json:"bDay"`
	BirthMonth int    `json:"bMonth"`
	BirthYear  int    `json:"bYear"`
	CityID     int    `json:"cityId"`
	CountryID  int    `json:"countryId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Sex        int    `json:"sex"`
}

type domainBody struct {
	Domain string `json:"domain"`
}

// GetMe returns the authenticated user's own profile
func (c *Client) GetMe(ctx context.Context) (*Result, error) {
	return c.post(ctx, "main/init", nil)
}

// GetUser returns another user's profile
func (c *Client) GetUser(ctx context.Context, userID int64) (*Result, error) {
	return c.post(ctx, fmt.Sprintf("profile/%d", userID), nil)
}

// GetGroup returns group info
func (c *Client) GetGroup(ctx context.Context, groupID int64) (*Result, error) {
	return c.post(ctx, fmt.Sprintf("group/%d", groupID), nil)
}

// Search returns up to 30 results for the given tab, ordering and query
func (c *Client) Search(ctx context.Context, params SearchParams) (*Result, error) {
	sort := params.Sort
	if sort == "" {
		sort = SortPopular
	}

	return c.post(ctx, "search", searchBody{
		Query:     params.Query,
		StartFrom: params.StartFrom,
		Tab:       params.Tab,
		Sort:      sort,
		City:      params.City,
	})
}

func (c *Client) Follow(ctx context.Context, userID int64) (*Result, error) {
	return c.post(ctx, fmt.Sprintf("follow/%d/add", userID), nil)
}

func (c *Client) Unfollow(ctx context.Context, userID int64) (*Result, error) {
	return c.post(ctx, fmt.Sprintf("follow/%d/del", userID), nil)
}

// GetFollow lists followers (inbox) or followings (outbox) of a user
func (c *Client) GetFollow(ctx context.Context, params FollowParams) (*Result, error) {
	kind := params.Type
	if kind == "" {
		kind = FollowersInbox
	}

	return c.get(ctx, fmt.Sprintf("followers/%d/more", params.UserID), followBody{
		Query:     params.Query,
		Type:      kind,
		StartFrom: params.StartFrom,
	})
}

func (c *Client) EditProfile(ctx context.Context, edit ProfileEdit) (*Result, error) {
	return c.post(ctx, "profile/edit", edit)
}

// CheckDomain reports whether a custom profile domain is free
func (c *Client) CheckDomain(ctx context.Context, domain string) (*Result, error) {
	return c.get(ctx, "domain/check", domainBody{Domain: domain})
}

func (c *Client) ChangeDomain(ctx context.Context, domain string) (*Result, error) {
	return c.get(ctx, "profile/domain", domainBody{Domain: domain})
}

func (c *Client) GetReferrals(ctx context.Context) (*Result, error) {
	return c.get(ctx, "invite/friends", nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (*Result, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body})
}

func (c *Client) get(ctx context.Context, path string, body any) (*Result, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, JSON: body})
}
