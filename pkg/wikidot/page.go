package wikidot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/reserve-fetch/models"
)

var (
	pageIDPattern = regexp.MustCompile(`WIKIREQUEST\.info\.pageId = (\d+);`)
	odatePattern  = regexp.MustCompile(`time_(\d+)`)
)

// listPagesFields are rendered by ListPagesModule into span.set elements.
var listPagesFields = []string{
	"fullname",
	"name",
	"title",
	"category",
	"created_at",
	"created_by_linked",
	"size",
}

func listPagesBody() string {
	var sb strings.Builder
	sb.WriteString(`[[div class="page"]]` + "\n")
	for _, f := range listPagesFields {
		fmt.Fprintf(&sb,
			`[[span class="set %s"]][[span class="name"]] %s [[/span]][[span class="value"]] %%%%%s%%%% [[/span]][[/span]]`+"\n",
			f, f, f)
	}
	sb.WriteString(`[[/div]]`)
	return sb.String()
}

// Page fetches metadata and source for a page by its full name
// (category:name). The returned page has a nil Source when the site
// rendered no source block for it.
func (s *Site) Page(ctx context.Context, fullname string) (*models.Page, error) {
	fullname = ToUnix(fullname)
	if fullname == "" {
		return nil, fmt.Errorf("%w: empty page name", ErrPageNotFound)
	}

	page, err := s.lookupPage(ctx, fullname)
	if err != nil {
		return nil, err
	}

	pageID, err := s.pageID(ctx, page.Fullname)
	if err != nil {
		return nil, err
	}

	page.Source, err = s.pageSource(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *Site) lookupPage(ctx context.Context, fullname string) (*models.Page, error) {
	body, err := s.session.module(ctx, s.UnixName, url.Values{
		"moduleName":  {"list/ListPagesModule"},
		"pagetype":    {"*"},
		"category":    {"*"},
		"fullname":    {fullname},
		"perPage":     {"1"},
		"separate":    {"no"},
		"wrapper":     {"no"},
		"module_body": {listPagesBody()},
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	entry := doc.Find("div.page").First()
	if entry.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, fullname)
	}

	page := &models.Page{}
	entry.Find("span.set").Each(func(_ int, set *goquery.Selection) {
		key := strings.TrimSpace(set.Find("span.name").First().Text())
		value := set.Find("span.value").First()

		switch key {
		case "fullname":
			page.Fullname = strings.TrimSpace(value.Text())
		case "name":
			page.Name = strings.TrimSpace(value.Text())
		case "title":
			page.Title = strings.TrimSpace(value.Text())
		case "category":
			page.Category = strings.TrimSpace(value.Text())
		case "created_at":
			page.CreatedAt = parseOdate(value)
		case "created_by_linked":
			page.CreatedBy = parsePrintUser(value)
		case "size":
			page.Size, _ = strconv.Atoi(strings.TrimSpace(value.Text()))
		}
	})

	if page.Fullname == "" {
		page.Fullname = fullname
	}
	return page, nil
}

func (s *Site) pageID(ctx context.Context, fullname string) (int, error) {
	body, status, err := s.session.get(ctx, fmt.Sprintf("%s/%s/norender/true/noredirect/true", s.URL(), fullname))
	if err != nil {
		return 0, err
	}
	if status == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s", ErrPageNotFound, fullname)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch page %s, status code: %d", fullname, status)
	}

	m := pageIDPattern.FindSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("%w: no page id for %s", ErrPageNotFound, fullname)
	}
	return strconv.Atoi(string(m[1]))
}

func (s *Site) pageSource(ctx context.Context, pageID int) (*models.Source, error) {
	body, err := s.session.module(ctx, s.UnixName, url.Values{
		"moduleName": {"viewsource/ViewSourceModule"},
		"page_id":    {strconv.Itoa(pageID)},
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	block := doc.Find("div.page-source").First()
	if block.Length() == 0 {
		return nil, nil
	}
	block.Find("br").ReplaceWithHtml("\n")

	text := strings.TrimSpace(block.Text())
	return &models.Source{WikiText: strings.TrimPrefix(text, "\t")}, nil
}

// parseOdate reads the epoch from an odate span's time_<n> class.
func parseOdate(value *goquery.Selection) *time.Time {
	odate := value.Find("span.odate").First()
	if odate.Length() == 0 {
		return nil
	}
	m := odatePattern.FindStringSubmatch(odate.AttrOr("class", ""))
	if m == nil {
		return nil
	}
	secs, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}

// parsePrintUser extracts a display name from a printuser span.
func parsePrintUser(value *goquery.Selection) *string {
	user := value.Find("span.printuser").First()
	if user.Length() == 0 {
		return nil
	}

	var name string
	switch {
	case user.HasClass("deleted"):
		name = "account deleted"
	case user.HasClass("anonymous"):
		name = "Anonymous"
	default:
		if links := user.Find("a"); links.Length() > 0 {
			name = strings.TrimSpace(links.Last().Text())
		}
		if name == "" {
			name = strings.TrimSpace(user.Text())
		}
	}
	if name == "" {
		return nil
	}
	return &name
}
