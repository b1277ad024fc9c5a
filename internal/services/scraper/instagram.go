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
	"github.com/recipereel/colette/internal/utils"
)

// InstagramScraper fetches post metadata through Instagram's GraphQL API via
// a scraping proxy. Rate-limit handling and retries live here, not in the
// extraction pipeline.
type InstagramScraper struct {
	proxyURL   string
	proxyKey   string
	httpClient *http.Client
}

func NewInstagramScraper(proxyURL, proxyKey string) *InstagramScraper {
	return &InstagramScraper{
		proxyURL:   proxyURL,
		proxyKey:   proxyKey,
		httpClient: httpclient.NewInstrumentedClient(60 * time.Second),
	}
}

func IsInstagramURL(u string) bool {
	matched, _ := regexp.MatchString(`instagram\.com/(?:[A-Za-z0-9_.]+/)?(p|reels?|tv)/`, u)
	return matched
}

var instagramShortcodeRe = regexp.MustCompile(`instagram\.com/(?:[A-Za-z0-9_.]+/)?(p|reels?|tv)/([A-Za-z0-9-_]+)`)

func extractShortcode(u string) (string, error) {
	matches := instagramShortcodeRe.FindStringSubmatch(u)
	if len(matches) < 3 {
		return "", ErrInvalidURL
	}
	return matches[2], nil
}

type graphqlResponse struct {
	Data struct {
		ShortcodeMedia struct {
			Shortcode     string  `json:"shortcode"`
			DisplayURL    string  `json:"display_url"`
			VideoURL      string  `json:"video_url"`
			IsVideo       bool    `json:"is_video"`
			VideoDuration float64 `json:"video_duration"`

			EdgeMediaToCaption struct {
				Edges []struct {
					Node struct {
						Text string `json:"text"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"edge_media_to_caption"`
			EdgeMediaPreviewLike struct {
				Count int `json:"count"`
			} `json:"edge_media_preview_like"`
			EdgeMediaToComment struct {
				Count int `json:"count"`
			} `json:"edge_media_to_comment"`
			Owner struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				FullName string `json:"full_name"`
			} `json:"owner"`
		} `json:"xdt_shortcode_media"`
	} `json:"data"`
}

func (s *InstagramScraper) Scrape(ctx context.Context, postURL string) (*SourcePost, error) {
	shortcode, err := extractShortcode(postURL)
	if err != nil {
		return nil, err
	}

	return utils.WithRetry(ctx, func(ctx context.Context) (*SourcePost, error) {
		return s.scrapeOnce(ctx, postURL, shortcode)
	}, utils.FastRetryConfig())
}

func (s *InstagramScraper) scrapeOnce(ctx context.Context, postURL, shortcode string) (*SourcePost, error) {
	graphQLURL := fmt.Sprintf("https://www.instagram.com/api/graphql?variables={\"shortcode\":\"%s\"}&doc_id=10015901848480474", shortcode)

	reqBody := map[string]interface{}{
		"url":    graphQLURL,
		"method": "POST",
		"headers": map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"X-IG-App-ID":  "936619743392459",
		},
	}
	body, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Instagram"), "POST", s.proxyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.proxyKey)

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

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var proxyResp struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &proxyResp); err != nil {
		return nil, err
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal([]byte(proxyResp.Data), &gqlResp); err != nil {
		return nil, err
	}

	media := gqlResp.Data.ShortcodeMedia
	if media.Shortcode == "" {
		return nil, ErrContentUnavailable
	}

	caption := ""
	if len(media.EdgeMediaToCaption.Edges) > 0 {
		caption = media.EdgeMediaToCaption.Edges[0].Node.Text
	}

	post := &SourcePost{
		Platform:       recipe.PlatformInstagram,
		URL:            postURL,
		Caption:        caption,
		ThumbnailURL:   media.DisplayURL,
		AuthorUsername: media.Owner.Username,
		AuthorName:     media.Owner.FullName,
		Hashtags:       ExtractHashtags(caption),
	}
	likes := media.EdgeMediaPreviewLike.Count
	comments := media.EdgeMediaToComment.Count
	post.Likes = &likes
	post.Comments = &comments
	if media.IsVideo {
		d := media.VideoDuration
		post.VideoDuration = &d
	}
	return post, nil
}
