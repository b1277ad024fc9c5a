package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"encoding/json"

	"github.com/recipereel/colette/internal/httpclient"
	"github.com/recipereel/colette/internal/recipe"
)

// YouTubeScraper fetches Shorts/video metadata from the YouTube Data API.
type YouTubeScraper struct {
	apiKey     string
	httpClient *http.Client
}

func NewYouTubeScraper(apiKey string) *YouTubeScraper {
	return &YouTubeScraper{
		apiKey:     apiKey,
		httpClient: httpclient.NewInstrumentedClient(30 * time.Second),
	}
}

func IsYouTubeURL(u string) bool {
	matched, _ := regexp.MatchString(`(youtube\.com/(shorts/|watch\?)|youtu\.be/)`, u)
	return matched
}

var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/watch\?(?:.*&)?v=([A-Za-z0-9_-]+)`),
}

func extractVideoID(u string) (string, error) {
	for _, re := range youtubeIDPatterns {
		if m := re.FindStringSubmatch(u); len(m) == 2 {
			return m[1], nil
		}
	}
	return "", ErrInvalidURL
}

// ISO 8601 durations like PT1M30S.
var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

func parseISODuration(s string) *float64 {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	var secs float64
	if m[1] != "" {
		h, _ := strconv.Atoi(m[1])
		secs += float64(h) * 3600
	}
	if m[2] != "" {
		min, _ := strconv.Atoi(m[2])
		secs += float64(min) * 60
	}
	if m[3] != "" {
		sec, _ := strconv.Atoi(m[3])
		secs += float64(sec)
	}
	return &secs
}

type youtubeVideosResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (s *YouTubeScraper) Scrape(ctx context.Context, postURL string) (*SourcePost, error) {
	videoID, err := extractVideoID(postURL)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("part", "snippet,contentDetails,statistics")
	q.Set("id", videoID)
	q.Set("key", s.apiKey)
	endpoint := "https://www.googleapis.com/youtube/v3/videos?" + q.Encode()

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "YouTube"), "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrAuthRequired
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("YouTube API error (status %d): %s", resp.StatusCode, string(body))
	}

	var ytResp youtubeVideosResponse
	if err := json.Unmarshal(body, &ytResp); err != nil {
		return nil, err
	}
	if len(ytResp.Items) == 0 {
		return nil, ErrContentUnavailable
	}

	item := ytResp.Items[0]
	caption := item.Snippet.Description
	post := &SourcePost{
		Platform:       recipe.PlatformYouTube,
		URL:            postURL,
		Caption:        caption,
		ThumbnailURL:   item.Snippet.Thumbnails.High.URL,
		AuthorUsername: item.Snippet.ChannelTitle,
		AuthorName:     item.Snippet.ChannelTitle,
		Hashtags:       ExtractHashtags(caption),
		VideoDuration:  parseISODuration(item.ContentDetails.Duration),
	}
	if n, err := strconv.Atoi(item.Statistics.LikeCount); err == nil {
		post.Likes = &n
	}
	if n, err := strconv.Atoi(item.Statistics.CommentCount); err == nil {
		post.Comments = &n
	}
	return post, nil
}
