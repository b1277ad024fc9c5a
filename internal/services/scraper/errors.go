package scraper

import "errors"

// Sentinel errors matching the scraper collaborator contract.
var (
	ErrInvalidURL          = errors.New("invalid URL")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrAuthRequired        = errors.New("authentication required")
	ErrContentUnavailable  = errors.New("content unavailable")
	ErrRateLimited         = errors.New("rate limited")
)
