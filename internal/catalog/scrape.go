// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/prereq-engine/internal/httputil"
	"github.com/pdiddy/prereq-engine/internal/tokenize"
)

// prereqMarker starts the requirement paragraph of a course block.
const prereqMarker = "Prerequisite"

// ScrapeHTML extracts prerequisite prose from a catalog page. Each
// div.courseblock contributes one entry keyed by the first course code in
// its .courseblocktitle; blocks without a code or a paragraph mentioning
// prerequisites are skipped and reported on log.
func ScrapeHTML(r io.Reader, log io.Writer) (map[string]string, error) {
	if log == nil {
		log = io.Discard
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog page: %w", err)
	}

	texts := make(map[string]string)
	doc.Find("div.courseblock").Each(func(i int, block *goquery.Selection) {
		title := clean(block.Find(".courseblocktitle").First().Text())
		course := firstCourse(title)
		if course == "" {
			fmt.Fprintf(log, "skipped block %d: no course code in %q\n", i, title)
			return
		}

		var text string
		block.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			body := clean(p.Text())
			idx := strings.Index(body, prereqMarker)
			if idx < 0 {
				return true
			}
			text = body[idx:]
			return false
		})
		if text == "" {
			fmt.Fprintf(log, "skipped %s: no prerequisite paragraph\n", course)
			return
		}
		texts[NormalizeKey(course)] = text
	})
	return texts, nil
}

// clean collapses whitespace, including the non-breaking spaces catalog
// pages put between department and number.
func clean(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}

func firstCourse(title string) string {
	for _, t := range tokenize.Text(title) {
		if t.Kind == tokenize.Course {
			return t.Text
		}
	}
	return ""
}

// Fetch downloads the catalog page at url and scrapes it.
func Fetch(ctx context.Context, f httputil.Fetcher, url string) (map[string]string, error) {
	body, err := f.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return ScrapeHTML(bytes.NewReader(body), f.Log)
}
