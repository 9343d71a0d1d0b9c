package ingestion

import (
	"fmt"
	"strings"
)

// articleHTML builds a news page whose body has the given number of paragraphs.
func articleHTML(title, author, published string, paragraphs int) string {
	var body strings.Builder
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&body, "<p>Paragraph %d of the story reports that the city council approved the new transit budget after a long debate about fares, routes and maintenance schedules.</p>\n", i+1)
	}

	var meta strings.Builder
	if author != "" {
		fmt.Fprintf(&meta, `<meta name="author" content="%s">`, author)
	}
	if published != "" {
		fmt.Fprintf(&meta, `<meta property="article:published_time" content="%s">`, published)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<title>%[1]s | Example News</title>
	%[2]s
</head>
<body>
	<nav><a href="/">Home</a> <a href="/world">World</a></nav>
	<article>
		<h1>%[1]s</h1>
		%[3]s
	</article>
	<footer>Copyright Example News</footer>
</body>
</html>`, title, meta.String(), body.String())
}
