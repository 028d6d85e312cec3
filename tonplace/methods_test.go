package tonplace

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	api := &fakeAPI{body: `{"items":[{"id":1,"name":"alice"}],"next":30}`}
	client := newTestClient(t, api)

	res, err := client.Search(context.Background(), SearchParams{
		Tab:       TabPeoples,
		Sort:      SortNew,
		Query:     "alice",
		City:      0,
		StartFrom: 0,
	})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/search", req.Path)

	body := api.lastJSON(t)
	assert.Equal(t, map[string]any{
		"tab":       "peoples",
		"sort":      "new",
		"query":     "alice",
		"city":      float64(0),
		"startFrom": float64(0),
	}, body)

	var want any
	require.NoError(t, json.Unmarshal([]byte(api.body), &want))
	var got any
	require.NoError(t, res.Decode(&got))
	assert.Equal(t, want, got)
}

func TestClient_Search_DefaultSort(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	client := newTestClient(t, api)

	_, err := client.Search(context.Background(), SearchParams{Tab: TabGroups})
	require.NoError(t, err)
	assert.Equal(t, "popular", api.lastJSON(t)["sort"])
}

func TestClient_CreatePost_GroupOwner(t *testing.T) {
	api := &fakeAPI{body: `{"post":{"id":99}}`}
	client := newTestClient(t, api)

	_, err := client.CreatePost(context.Background(), PostParams{OwnerID: -123, Text: "hi"})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, "/posts/new", req.Path)

	body := api.lastJSON(t)
	assert.Equal(t, float64(-123), body["ownerId"])
	assert.Equal(t, "hi", body["text"])
	assert.Equal(t, float64(0), body["parentId"])
	assert.Equal(t, float64(0), body["timer"])
	assert.Equal(t, []any{}, body["attachments"])
}

func TestClient_CreatePost_AttachmentOrder(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	client := newTestClient(t, api)

	atts := NewAttachments().
		AddPhoto(3).
		AddVideo(1).
		Add(Attachment{Type: "poll", ID: 2, Extra: map[string]any{"question": "?"}})

	_, err := client.CreatePost(context.Background(), PostParams{OwnerID: 5, Attachments: atts})
	require.NoError(t, err)

	assert.Equal(t, []any{
		map[string]any{"type": "photo", "id": float64(3)},
		map[string]any{"type": "video", "id": float64(1)},
		map[string]any{"type": "poll", "id": float64(2), "question": "?"},
	}, api.lastJSON(t)["attachments"])
}

func TestClient_WriteComment(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	client := newTestClient(t, api)

	_, err := client.WriteComment(context.Background(), CommentParams{
		PostID:      10,
		Text:        "nice",
		ReplyTo:     11,
		GroupID:     12,
		Attachments: NewAttachments(Attachment{Type: "photo", ID: 8}, Attachment{Type: "photo", ID: 7}),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"parentId": float64(10),
		"replyTo":  float64(11),
		"text":     "nice",
		"groupId":  float64(12),
		"attachments": []any{
			map[string]any{"type": "photo", "id": float64(8)},
			map[string]any{"type": "photo", "id": float64(7)},
		},
	}, api.lastJSON(t))
}

func TestClient_WriteComment_Defaults(t *testing.T) {
	api := &fakeAPI{body: `{}`}
	client := newTestClient(t, api)

	_, err := client.WriteComment(context.Background(), CommentParams{PostID: 1})
	require.NoError(t, err)

	body := api.lastJSON(t)
	assert.Equal(t, float64(0), body["replyTo"])
	assert.Equal(t, float64(0), body["groupId"])
	assert.Equal(t, "", body["text"])
	assert.Equal(t, []any{}, body["attachments"])
}

func TestClient_GetUser_Idempotent(t *testing.T) {
	api := &fakeAPI{body: `{"user":{"id":42,"firstName":"Bob","followers":12345678901234567}}`}
	client := newTestClient(t, api)

	first, err := client.GetUser(context.Background(), 42)
	require.NoError(t, err)
	second, err := client.GetUser(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, "/profile/42", api.last(t).Path)

	obj, ok := first.Object()
	require.True(t, ok)
	user := obj["user"].(map[string]any)
	assert.Equal(t, json.Number("12345678901234567"), user["followers"])
}

func TestClient_PathAndMethodMapping(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(c *Client) (*Result, error)
		method string
		path   string
		body   map[string]any
	}{
		{"get group", func(c *Client) (*Result, error) { return c.GetGroup(ctx, 5) }, "POST", "/group/5", nil},
		{"follow", func(c *Client) (*Result, error) { return c.Follow(ctx, 6) }, "POST", "/follow/6/add", nil},
		{"unfollow", func(c *Client) (*Result, error) { return c.Unfollow(ctx, 6) }, "POST", "/follow/6/del", nil},
		{"like", func(c *Client) (*Result, error) { return c.Like(ctx, 7) }, "POST", "/likes/7/post/add", nil},
		{"unlike", func(c *Client) (*Result, error) { return c.Unlike(ctx, 7) }, "POST", "/likes/7/post/del", nil},
		{"get post", func(c *Client) (*Result, error) { return c.GetPost(ctx, 8) }, "GET", "/posts/8", nil},
		{"dialogs", func(c *Client) (*Result, error) { return c.GetDialogs(ctx) }, "GET", "/im", nil},
		{"notify", func(c *Client) (*Result, error) { return c.GetNotify(ctx) }, "GET", "/notify", nil},
		{"groups", func(c *Client) (*Result, error) { return c.GetOwnedGroups(ctx) }, "GET", "/groups", nil},
		{"balance", func(c *Client) (*Result, error) { return c.GetBalance(ctx) }, "GET", "/balance", nil},
		{"referrals", func(c *Client) (*Result, error) { return c.GetReferrals(ctx) }, "GET", "/invite/friends", nil},
		{
			"read post",
			func(c *Client) (*Result, error) { return c.ReadPost(ctx, 9) },
			"POST", "/posts/read",
			map[string]any{"posts": []any{float64(9)}},
		},
		{
			"read posts",
			func(c *Client) (*Result, error) { return c.ReadPosts(ctx, []int64{1, 2, 3}) },
			"POST", "/posts/read",
			map[string]any{"posts": []any{float64(1), float64(2), float64(3)}},
		},
		{
			"send ton",
			func(c *Client) (*Result, error) { return c.SendTON(ctx, "EQabc", 1.25) },
			"POST", "/balance/withdraw",
			map[string]any{"address": "EQabc", "amount": 1.25},
		},
		{
			"check domain",
			func(c *Client) (*Result, error) { return c.CheckDomain(ctx, "alice") },
			"GET", "/domain/check",
			map[string]any{"domain": "alice"},
		},
		{
			"change domain",
			func(c *Client) (*Result, error) { return c.ChangeDomain(ctx, "alice") },
			"GET", "/profile/domain",
			map[string]any{"domain": "alice"},
		},
		{
			"followers",
			func(c *Client) (*Result, error) { return c.GetFollow(ctx, FollowParams{UserID: 3, StartFrom: 20}) },
			"GET", "/followers/3/more",
			map[string]any{"query": "", "type": "inbox", "startFrom": float64(20)},
		},
		{
			"following",
			func(c *Client) (*Result, error) {
				return c.GetFollow(ctx, FollowParams{UserID: 3, Type: FollowersOutbox, Query: "bo"})
			},
			"GET", "/followers/3/more",
			map[string]any{"query": "bo", "type": "outbox", "startFrom": float64(0)},
		},
		{
			"edit profile",
			func(c *Client) (*Result, error) {
				return c.EditProfile(ctx, ProfileEdit{
					BirthDay: 1, BirthMonth: 2, BirthYear: 1990,
					CityID: 4, CountryID: 5,
					FirstName: "A", LastName: "B", Sex: 1,
				})
			},
			"POST", "/profile/edit",
			map[string]any{
				"bDay": float64(1), "bMonth": float64(2), "bYear": float64(1990),
				"cityId": float64(4), "countryId": float64(5),
				"firstName": "A", "lastName": "B", "sex": float64(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{body: `{"ok":true}`}
			client := newTestClient(t, api)

			res, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"ok": true}, res.Data)

			req := api.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			if tt.body != nil {
				assert.Equal(t, tt.body, api.lastJSON(t))
			} else {
				assert.Empty(t, req.Body)
			}
		})
	}
}

func TestClient_GetFeed_Suggestions(t *testing.T) {
	yes := true

	tests := []struct {
		name   string
		params FeedParams
		want   any
	}{
		{"following defaults to false", FeedParams{Section: FeedFollowing}, false},
		{"liked defaults to false", FeedParams{Section: FeedLiked, StartFrom: 20}, false},
		{"suggestions sends null", FeedParams{Section: FeedSuggestions}, nil},
		{"explicit value wins", FeedParams{Section: FeedFollowing, Suggestions: &yes}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{body: `{"items":[]}`}
			client := newTestClient(t, api)

			_, err := client.GetFeed(context.Background(), tt.params)
			require.NoError(t, err)

			body := api.lastJSON(t)
			assert.Equal(t, "/feed", api.last(t).Path)
			assert.Equal(t, tt.params.Section, body["section"])
			assert.Equal(t, float64(tt.params.StartFrom), body["startFrom"])
			v, present := body["suggestions"]
			assert.True(t, present)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestClient_Upload(t *testing.T) {
	tests := []struct {
		name        string
		upload      func(c *Client) (*Result, error)
		path        string
		contentType string
		fileName    string
		album       string
	}{
		{
			name:        "photo defaults",
			upload:      func(c *Client) (*Result, error) { return c.UploadPhoto(context.Background(), []byte("jpegdata")) },
			path:        "/upload-host/photos/upload",
			contentType: "image/jpeg",
			fileName:    "blob",
			album:       "-3",
		},
		{
			name: "video with options",
			upload: func(c *Client) (*Result, error) {
				return c.UploadVideo(context.Background(), []byte("jpegdata"), WithAlbum(12), WithFileName("clip.mp4"))
			},
			path:        "/upload-host/video/upload",
			contentType: "video/mp4",
			fileName:    "clip.mp4",
			album:       "12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{body: `{"id":555,"url":"https://cdn/x"}`}
			client := newTestClient(t, api)

			res, err := tt.upload(client)
			require.NoError(t, err)
			obj, ok := res.Object()
			require.True(t, ok)
			assert.Equal(t, json.Number("555"), obj["id"])

			req := api.last(t)
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, "secret-token", req.Header.Get("Authorization"))

			mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
			require.NoError(t, err)
			assert.Equal(t, "multipart/form-data", mediaType)

			reader := multipart.NewReader(strings.NewReader(string(req.Body)), params["boundary"])
			fields := map[string]string{}
			for {
				part, err := reader.NextPart()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				data, _ := io.ReadAll(part)
				if part.FormName() == "file" {
					assert.Equal(t, tt.fileName, part.FileName())
					assert.Equal(t, tt.contentType, part.Header.Get("Content-Type"))
				}
				fields[part.FormName()] = string(data)
			}
			assert.Equal(t, "jpegdata", fields["file"])
			assert.Equal(t, tt.album, fields["album_id"])
		})
	}
}

func TestAttachments(t *testing.T) {
	var nilAtts *Attachments
	assert.Equal(t, []map[string]any{}, nilAtts.List())
	assert.Equal(t, 0, nilAtts.Len())

	var zero Attachments
	zero.AddPhoto(1)
	assert.Equal(t, 1, zero.Len())

	extra := map[string]any{"type": "ignored", "w": 10}
	list := NewAttachments(Attachment{Type: "photo", ID: 2, Extra: extra}).List()
	assert.Equal(t, []map[string]any{{"type": "photo", "id": int64(2), "w": 10}}, list)
	assert.Equal(t, "ignored", extra["type"], "extra map must not be mutated")
}
