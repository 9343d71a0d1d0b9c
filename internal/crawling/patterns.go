package crawling

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	datePathPattern  = regexp.MustCompile(`(^|/)(19|20)\d{2}/(0?[1-9]|1[0-2])(/|$)|(19|20)\d{2}-\d{2}-\d{2}`)
	numericIDPattern = regexp.MustCompile(`\d{5,}`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+){2,}(?:\.s?html?|\.php)?$`)
	hasLetter        = regexp.MustCompile(`[a-z]`)
)

// articleSections are path segments that introduce an article when followed by a slug or id.
var articleSections = map[string]bool{
	"article":  true,
	"articles": true,
	"news":     true,
	"story":    true,
	"stories":  true,
	"post":     true,
	"posts":    true,
	"blog":     true,
	"blogs":    true,
}

// nonArticleSegments mark listing, account and legal pages.
var nonArticleSegments = map[string]bool{
	"tag": true, "tags": true, "topic": true, "topics": true,
	"category": true, "categories": true, "section": true, "sections": true,
	"author": true, "authors": true, "profile": true, "profiles": true,
	"search": true, "login": true, "signin": true, "signup": true, "register": true,
	"subscribe": true, "subscription": true, "subscriptions": true, "account": true,
	"newsletter": true, "newsletters": true, "feed": true, "rss": true,
	"about": true, "about-us": true, "contact": true, "contact-us": true, "help": true,
	"privacy": true, "privacy-policy": true, "terms": true, "terms-of-use": true,
	"terms-of-service": true, "cookie-policy": true, "careers": true, "jobs": true,
	"advertise": true, "page": true, "cdn-cgi": true, "wp-admin": true, "wp-login.php": true,
}

// assetExtensions are file types that are never article pages.
var assetExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
	".css": true, ".js": true, ".json": true, ".xml": true, ".rss": true, ".pdf": true,
	".mp3": true, ".mp4": true, ".zip": true, ".ico": true, ".txt": true,
}

// IsArticleURL reports whether a link looks like an individual story rather than
// a section front, listing, or asset.
func IsArticleURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	p := strings.ToLower(strings.Trim(u.Path, "/"))
	if p == "" {
		return false
	}
	if assetExtensions[path.Ext(p)] {
		return false
	}

	segments := strings.Split(p, "/")
	for _, segment := range segments {
		if nonArticleSegments[segment] {
			return false
		}
	}

	last := segments[len(segments)-1]

	if datePathPattern.MatchString(p) && hasLetter.MatchString(last) {
		return true
	}
	if numericIDPattern.MatchString(last) {
		return true
	}
	if slugPattern.MatchString(last) {
		return true
	}
	if !strings.ContainsAny(last, "-_0123456789") {
		return false
	}
	for _, segment := range segments[:len(segments)-1] {
		if articleSections[segment] {
			return true
		}
	}
	return false
}

// FilterArticleLinks keeps article-like links, preserving order and excluding the homepage itself.
func FilterArticleLinks(links []string, homepage string) []string {
	home := strings.TrimSuffix(homepage, "/")
	candidates := make([]string, 0, len(links))
	for _, link := range links {
		if link == home {
			continue
		}
		if IsArticleURL(link) {
			candidates = append(candidates, link)
		}
	}
	return candidates
}
