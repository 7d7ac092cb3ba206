package review

import (
	"regexp"
	"strings"
)

var (
	playAppIDPattern  = regexp.MustCompile(`id=([^&]+)`)
	appStoreIDPattern = regexp.MustCompile(`id(\d+)`)
)

// DetectPlatform classifies a store URL by substring. It never fails: URLs
// that match no known storefront return Unknown.
func DetectPlatform(rawURL string) Platform {
	switch {
	case strings.Contains(rawURL, "play.google.com"):
		return GooglePlay
	case strings.Contains(rawURL, "apps.apple.com"), strings.Contains(rawURL, "itunes.apple.com"):
		return AppStore
	default:
		return Unknown
	}
}

// ExtractAppID pulls the storefront-specific app identifier out of a URL.
// Google Play identifiers are the value of the id query parameter; App Store
// identifiers are the digits following an "id" token in the path. The second
// return is false when the pattern does not match.
func ExtractAppID(rawURL string, platform Platform) (string, bool) {
	var m []string
	switch platform {
	case GooglePlay:
		m = playAppIDPattern.FindStringSubmatch(rawURL)
	case AppStore:
		m = appStoreIDPattern.FindStringSubmatch(rawURL)
	default:
		return "", false
	}
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
