package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/recipereel/colette/internal/httpclient"
	"github.com/recipereel/colette/internal/recipe"
)

// TikTokScraper fetches post metadata through an Apify actor run.
type TikTokScraper struct {
	apifyKey   string
	httpClient *http.Client
}

func NewTikTokScraper(apifyKey string) *TikTokScraper {
	return &TikTokScraper{
		apifyKey:   apifyKey,
		httpClient: httpclient.NewInstrumentedClient(180 * time.Second),
	}
}

func IsTikTokURL(u string) bool {
	matched, _ := regexp.MatchString(`(?:vm\.)?tiktok\.com/`, u)
	return matched
}

func (s *TikTokScraper) Scrape(ctx context.Context, postURL string) (*SourcePost, error) {
	input := map[string]interface{}{
		"postURLs":                []string{postURL},
		"resultsPerPage":          1,
		"shouldDownloadVideos":    false,
		"shouldDownloadCovers":    true,
		"shouldDownloadSubtitles": false,
	}
	inputData, _ := json.Marshal(input)

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "TikTok"), "POST",
		"https://api.apify.com/v2/acts/GdWCkxBtKWOsKjdch/run-sync",
		bytes.NewReader(inputData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apifyKey)
	req.Header.Set("Content-Type", "application/json")

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
	case http.StatusNotFound:
		return nil, ErrContentUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse TikTok response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrContentUnavailable
	}

	item := results[0]
	caption := getString(item, "text")
	post := &SourcePost{
		Platform:       recipe.PlatformTikTok,
		URL:            postURL,
		Caption:        caption,
		ThumbnailURL:   getStringNested(item, "videoMeta", "coverUrl"),
		AuthorUsername: getStringNested(item, "authorMeta", "name"),
		AuthorName:     getStringNested(item, "authorMeta", "nickName"),
		Hashtags:       ExtractHashtags(caption),
	}
	if likes, ok := getInt(item, "diggCount"); ok {
		post.Likes = &likes
	}
	if comments, ok := getInt(item, "commentCount"); ok {
		post.Comments = &comments
	}
	if v, ok := item["videoMeta"].(map[string]interface{}); ok {
		if d, ok := v["duration"].(float64); ok {
			post.VideoDuration = &d
		}
	}
	return post, nil
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) (int, bool) {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return int(f), true
		}
	}
	return 0, false
}

func getStringNested(m map[string]interface{}, key1, key2 string) string {
	if v, ok := m[key1]; ok {
		if nested, ok := v.(map[string]interface{}); ok {
			return getString(nested, key2)
		}
	}
	return ""
}
