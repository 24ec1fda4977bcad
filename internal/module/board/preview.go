package board

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"homeforge/config"
	"homeforge/internal/global/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// maxTitleLen matches the width of the title column.
const maxTitleLen = 255

// fetchTitle returns the page's og:title, else its <title>. Any failure yields "".
func fetchTitle(ctx context.Context, link string) string {
	if !config.Get().Preview.Enable {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}

	resp, err := httpclient.Get().R().SetContext(ctx).Get(u.String())
	if err != nil {
		log.Debug("link preview failed", "url", link, "error", err)
		return ""
	}
	if resp.IsError() {
		log.Debug("link preview failed", "url", link, "status", resp.StatusCode())
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen])
	}
	return title
}
