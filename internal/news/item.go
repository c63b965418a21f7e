package news

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Item is one discovered link post.
type Item struct {
	URL          string  `db:"url"`
	Title        string  `db:"title"`
	Category     string  `db:"category"`
	Domain       string  `db:"domain"`
	DetailLink   string  `db:"detail_link"`
	CreatedAt    float64 `db:"created_at"`
	IsRead       bool    `db:"is_read"`
	IsBookmarked bool    `db:"is_bookmarked"`
	IsNew        bool    `db:"is_new"`
	Score        int     `db:"score"`
	ReplyCount   int     `db:"reply_count"`
}

func (i Item) Created() time.Time {
	sec := int64(i.CreatedAt)
	nsec := int64((i.CreatedAt - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// FlagUpdate is a partial update of the user-owned flags. Nil fields are left untouched.
type FlagUpdate struct {
	IsRead       *bool
	IsBookmarked *bool
	IsNew        *bool
}

func (f FlagUpdate) Empty() bool {
	return f.IsRead == nil && f.IsBookmarked == nil && f.IsNew == nil
}

// Apply mutates the in-memory copy the same way the store would.
func (f FlagUpdate) Apply(item *Item) {
	if f.IsRead != nil {
		item.IsRead = *f.IsRead
	}
	if f.IsBookmarked != nil {
		item.IsBookmarked = *f.IsBookmarked
	}
	if f.IsNew != nil && !*f.IsNew {
		item.IsNew = false
	}
}

func Bool(v bool) *bool { return &v }

// DomainFromURL returns the lowercased host of raw with any leading "www." removed.
func DomainFromURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

var mediaDomains = map[string]struct{}{
	"youtube.com":     {},
	"m.youtube.com":   {},
	"youtu.be":        {},
	"vimeo.com":       {},
	"twitch.tv":       {},
	"clips.twitch.tv": {},
	"streamable.com":  {},
	"v.redd.it":       {},
	"dailymotion.com": {},
	"rumble.com":      {},
}

func IsMediaDomain(domain string) bool {
	_, ok := mediaDomains[strings.ToLower(domain)]
	return ok
}

// TimeAgo renders the age of then relative to now as "Ns ago", "Nm ago", "Nh ago" or "Nd ago".
func TimeAgo(now, then time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
