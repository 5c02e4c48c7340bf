package webtext

import (
	"regexp"
	"strings"
)

var (
	titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	spaceRe = regexp.MustCompile(`\s+`)

	// Blocks stripped wholesale before tag removal: boilerplate chrome that
	// drowns out the content the extractor needs.
	blockRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`),
		regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`),
	}

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// StripHTML removes script/style/nav/footer/header blocks, strips remaining
// tags, decodes a small fixed set of entities, and collapses whitespace.
func StripHTML(html string) string {
	for _, re := range blockRes {
		html = re.ReplaceAllString(html, "")
	}
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)
	html = spaceRe.ReplaceAllString(html, " ")
	return strings.TrimSpace(html)
}

// extractTitle pulls the <title> text from raw markup.
func extractTitle(html string) string {
	m := titleRe.FindStringSubmatch(html)
	if len(m) > 1 {
		return strings.TrimSpace(spaceRe.ReplaceAllString(m[1], " "))
	}
	return ""
}
