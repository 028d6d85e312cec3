package tonplace

// Attachment kinds accepted by posts/new.
const (
	AttachmentPhoto = "photo"
	AttachmentVideo = "video"
)

// Attachment describes one media item attached to a post or comment.
type Attachment struct {
	Type string
	ID   int64
	// Extra holds any additional keys the API expects for this kind.
	Extra map[string]any
}

// Attachments is an ordered attachment collection. The zero value is ready
// to use.
type Attachments struct {
	items []Attachment
}

// NewAttachments creates a collection holding items in order.
func NewAttachments(items ...Attachment) *Attachments {
	a := &Attachments{}
	for _, item := range items {
		a.Add(item)
	}
	return a
}

// Add appends an attachment and returns the collection for chaining.
func (a *Attachments) Add(item Attachment) *Attachments {
	a.items = append(a.items, item)
	return a
}

// AddPhoto appends a photo by id.
func (a *Attachments) AddPhoto(id int64) *Attachments {
	return a.Add(Attachment{Type: AttachmentPhoto, ID: id})
}

// AddVideo appends a video by id.
func (a *Attachments) AddVideo(id int64) *Attachments {
	return a.Add(Attachment{Type: AttachmentVideo, ID: id})
}

// Len returns the number of attachments.
func (a *Attachments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// List flattens the collection into the plain structures sent on the wire,
// in insertion order. A nil or empty collection yields an empty, non-nil list.
func (a *Attachments) List() []map[string]any {
	if a == nil {
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(a.items))
	for _, item := range a.items {
		m := make(map[string]any, len(item.Extra)+2)
		for k, v := range item.Extra {
			m[k] = v
		}
		m["type"] = item.Type
		m["id"] = item.ID
		out = append(out, m)
	}
	return out
}
