package assassinService

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@tamu\.edu$`)
)

// imageClient bounds how long a photo URL probe may take. Overridden in tests.
var imageClient = &http.Client{Timeout: 10 * time.Second}

func ValidName(name string) bool {
	return name != "" && namePattern.MatchString(name)
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidImageURL checks that the URL is well-formed and fetches as an image.
// Any transport failure counts as invalid: registration fails closed.
func ValidImageURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	resp, err := imageClient.Get(rawURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}
