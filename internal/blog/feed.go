// Package blog serves the read-only blog feed shown on the client's home page.
package blog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed feed.json
var feedJSON []byte

// Post is one entry of the feed.
type Post struct {
	ID           int    `json:"id"`
	Author       string `json:"author"`
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Date         string `json:"date"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
}

// Feed is the document served to the client.
type Feed struct {
	Blogs []Post `json:"blogs"`
}

// Catalog is an immutable, indexed feed.
type Catalog struct {
	feed Feed
	byID map[int]Post
}

// Load parses the embedded feed.
func Load() (*Catalog, error) {
	return Parse(feedJSON)
}

// Parse builds a catalog from a feed document. Post IDs must be unique.
func Parse(data []byte) (*Catalog, error) {
	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse blog feed: %w", err)
	}

	byID := make(map[int]Post, len(feed.Blogs))
	for _, p := range feed.Blogs {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate post id %d", p.ID)
		}
		byID[p.ID] = p
	}
	if feed.Blogs == nil {
		feed.Blogs = []Post{}
	}

	return &Catalog{feed: feed, byID: byID}, nil
}

// List returns the whole feed.
func (c *Catalog) List() Feed {
	return c.feed
}

// Get returns a single post.
func (c *Catalog) Get(id int) (Post, bool) {
	p, ok := c.byID[id]
	return p, ok
}
