package catalog

import (
	"regexp"
	"strings"
	"time"
)

// BlogPost is a published article.
type BlogPost struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	ImageSrc   string    `json:"imageSrc"`
	ImageAlt   string    `json:"imageAlt"`
	DataAIHint string    `json:"dataAiHint"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreatePostInput carries the fields accepted when publishing a post.
// Slug is derived from Title when empty and Date defaults to now.
type CreatePostInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	ImageSrc   string
	ImageAlt   string
	DataAIHint string
	Author     string
	Date       *time.Time
}

// PostPatch is a partial update; a title change keeps the existing slug.
type PostPatch struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	ImageSrc   *string
	ImageAlt   *string
	DataAIHint *string
	Author     *string
	Date       *time.Time
}

func (p PostPatch) apply(dst *BlogPost) {
	setString(&dst.Title, p.Title)
	setString(&dst.Excerpt, p.Excerpt)
	setString(&dst.Content, p.Content)
	setString(&dst.ImageSrc, p.ImageSrc)
	setString(&dst.ImageAlt, p.ImageAlt)
	setString(&dst.DataAIHint, p.DataAIHint)
	setString(&dst.Author, p.Author)
	if p.Date != nil {
		dst.Date = p.Date.UTC()
	}
}

func (p PostPatch) empty() bool {
	return p == PostPatch{}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
)

// Slugify lowercases s, turns whitespace runs into hyphens and drops
// everything that is not a word character or hyphen.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return nonSlugChars.ReplaceAllString(slug, "")
}
