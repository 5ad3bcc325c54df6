package render

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday"
)

const (
	htmlFlags = blackfriday.HTML_SKIP_HTML |
		blackfriday.HTML_SKIP_STYLE |
		blackfriday.HTML_SKIP_IMAGES |
		blackfriday.HTML_SAFELINK

	extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_SPACE_HEADERS
)

// Telegram accepts only a handful of tags, so block elements are flattened.
var tagReplacer = strings.NewReplacer(
	"<p>", "",
	"</p>", "\n",
	"<strong>", "<b>",
	"</strong>", "</b>",
	"<em>", "<i>",
	"</em>", "</i>",
	"<ul>\n", "",
	"</ul>", "",
	"<ol>\n", "",
	"</ol>", "",
	"<li>", "• ",
	"</li>", "",
	"<br>", "\n",
	"<br />", "\n",
	"<hr>", "",
	"<hr />", "",
)

var (
	headingOpen  = regexp.MustCompile(`<h[1-6][^>]*>`)
	headingClose = regexp.MustCompile(`</h[1-6]>`)
	codeClass    = regexp.MustCompile(`<code class="[^"]*">`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// ToHTML renders markdown as Telegram flavoured HTML.
func ToHTML(markdown string) string {
	renderer := blackfriday.HtmlRenderer(htmlFlags, "", "")
	html := string(blackfriday.Markdown([]byte(markdown), renderer, extensions))

	html = headingOpen.ReplaceAllString(html, "<b>")
	html = headingClose.ReplaceAllString(html, "</b>\n")
	html = codeClass.ReplaceAllString(html, "<code>")
	html = tagReplacer.Replace(html)
	html = blankLines.ReplaceAllString(html, "\n\n")

	return strings.TrimSpace(html)
}
