package scraper

import (
	"context"
	"regexp"

	"github.com/recipereel/colette/internal/recipe"
)

// SourcePost is the raw material one scrape produces. It is immutable after
// the scrape and lives only for the duration of one extraction request.
type SourcePost struct {
	Platform       recipe.Platform `json:"platform"`
	URL            string          `json:"url"`
	Caption        string          `json:"caption"`
	VideoDuration  *float64        `json:"video_duration,omitempty"`
	ThumbnailURL   string          `json:"thumbnail_url,omitempty"`
	AuthorUsername string          `json:"author_username,omitempty"`
	AuthorName     string          `json:"author_name,omitempty"`
	Likes          *int            `json:"likes,omitempty"`
	Comments       *int            `json:"comments,omitempty"`
	Hashtags       []string        `json:"hashtags,omitempty"`
}

// Scraper fetches a post from one platform.
type Scraper interface {
	Scrape(ctx context.Context, postURL string) (*SourcePost, error)
}

var hashtagRe = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags pulls hashtag names out of a caption, in caption order.
func ExtractHashtags(caption string) []string {
	matches := hashtagRe.FindAllStringSubmatch(caption, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// DetectPlatform maps a URL to its platform, or ErrUnsupportedPlatform.
func DetectPlatform(u string) (recipe.Platform, error) {
	switch {
	case IsInstagramURL(u):
		return recipe.PlatformInstagram, nil
	case IsTikTokURL(u):
		return recipe.PlatformTikTok, nil
	case IsYouTubeURL(u):
		return recipe.PlatformYouTube, nil
	default:
		return "", ErrUnsupportedPlatform
	}
}

// Registry routes URLs to per-platform scrapers.
type Registry struct {
	instagram Scraper
	tiktok    Scraper
	youtube   Scraper
}

// NewRegistry builds a registry from the three platform scrapers. A nil
// scraper makes that platform report ErrContentUnavailable.
func NewRegistry(instagram, tiktok, youtube Scraper) *Registry {
	return &Registry{instagram: instagram, tiktok: tiktok, youtube: youtube}
}

// Scrape detects the platform and delegates to its scraper.
func (r *Registry) Scrape(ctx context.Context, postURL string) (*SourcePost, error) {
	platform, err := DetectPlatform(postURL)
	if err != nil {
		return nil, err
	}

	var s Scraper
	switch platform {
	case recipe.PlatformInstagram:
		s = r.instagram
	case recipe.PlatformTikTok:
		s = r.tiktok
	case recipe.PlatformYouTube:
		s = r.youtube
	}
	if s == nil {
		return nil, ErrContentUnavailable
	}
	return s.Scrape(ctx, postURL)
}
