package wikidot

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const pageIDSuffix = "/norender/true/noredirect/true"

type fakePage struct {
	id        int
	fullname  string
	name      string
	title     string
	category  string
	createdAt int64
	createdBy string
	size      int
	source    *string
}

type fakeSite struct {
	id    int
	title string
	pages map[string]fakePage
}

// fakeWikidot answers the handful of endpoints the client talks to.
type fakeWikidot struct {
	username       string
	password       string
	sessionID      string
	omitCookie     bool
	hostOnlyCookie bool
	sites          map[string]*fakeSite

	mu      sync.Mutex
	logouts int
}

// rewriteTransport sends every request to the test server while keeping the
// original Host, so *.wikidot.com URLs resolve locally.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = req.URL.Host
	return http.DefaultTransport.RoundTrip(out)
}

func strPtr(s string) *string { return &s }

func newFakeWikidot() *fakeWikidot {
	return &fakeWikidot{
		username:  "rule-bot",
		password:  "secret",
		sessionID: "sess-1",
		sites: map[string]*fakeSite{
			"rpcsandboxcn": {
				id:    123,
				title: "RPC Sandbox",
				pages: map[string]fakePage{
					"reserve:rpc-055": {
						id:        9001,
						fullname:  "reserve:rpc-055",
						name:      "rpc-055",
						title:     "RPC-055 & friends",
						category:  "reserve",
						createdAt: 1609459200,
						createdBy: "Rule Bot",
						size:      1234,
						source:    strPtr("title: 'Hello'\ndate-from: 1609459200\nnote: a <b>bold</b> claim"),
					},
					"reserve:blank": {
						id:       9002,
						fullname: "reserve:blank",
						name:     "blank",
						category: "reserve",
					},
				},
			},
		},
	}
}

func (f *fakeWikidot) start(t *testing.T) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client, err := NewClient(Options{
		HTTPClient: &http.Client{Transport: rewriteTransport{target: target}},
	})
	require.NoError(t, err)
	return client
}

func (f *fakeWikidot) currentSession() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionID
}

func (f *fakeWikidot) rotateSession(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionID = id
}

func (f *fakeWikidot) logoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func (f *fakeWikidot) serve(w http.ResponseWriter, r *http.Request) {
	sub := strings.TrimSuffix(r.Host, "."+DefaultDomain)

	switch {
	case sub == wwwSite && r.URL.Path == loginPath:
		f.login(w, r)
	case r.URL.Path == ajaxPath:
		f.module(w, r, sub)
	default:
		f.page(w, r, sub)
	}
}

func (f *fakeWikidot) login(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if r.Form.Get("login") != f.username || r.Form.Get("password") != f.password {
		fmt.Fprint(w, "<p>The login and password do not match.</p>")
		return
	}
	if !f.omitCookie {
		ck := &http.Cookie{Name: sessionCookie, Value: f.currentSession(), Path: "/"}
		if !f.hostOnlyCookie {
			ck.Domain = DefaultDomain
		}
		http.SetCookie(w, ck)
	}
	fmt.Fprint(w, "<html>welcome</html>")
}

func (f *fakeWikidot) module(w http.ResponseWriter, r *http.Request, sub string) {
	_ = r.ParseForm()
	moduleName := r.Form.Get("moduleName")

	token, err := r.Cookie(tokenCookie)
	if err != nil || token.Value != tokenValue || r.Form.Get(tokenCookie) != tokenValue {
		writeModule(w, moduleResponse{Status: "wrong_token7"})
		return
	}
	sess, err := r.Cookie(sessionCookie)
	if err != nil || sess.Value != f.currentSession() {
		writeModule(w, moduleResponse{Status: "no_permission", Message: "not logged in"})
		return
	}

	site := f.sites[sub]

	switch moduleName {
	case "Empty":
		if r.Form.Get("event") == "logout" {
			f.mu.Lock()
			f.logouts++
			f.mu.Unlock()
		}
		writeModule(w, moduleResponse{Status: "ok"})

	case "list/ListPagesModule":
		if !strings.Contains(r.Form.Get("module_body"), "%%created_by_linked%%") {
			writeModule(w, moduleResponse{Status: "bad_request"})
			return
		}
		p, ok := site.pages[r.Form.Get("fullname")]
		if !ok {
			writeModule(w, moduleResponse{Status: "ok", Body: `<div class="list-pages-box"></div>`})
			return
		}
		writeModule(w, moduleResponse{Status: "ok", Body: renderListPages(p)})

	case "viewsource/ViewSourceModule":
		for _, p := range site.pages {
			if fmt.Sprint(p.id) != r.Form.Get("page_id") {
				continue
			}
			if p.source == nil {
				writeModule(w, moduleResponse{Status: "ok", Body: `<div class="error-block">No source</div>`})
				return
			}
			src := strings.ReplaceAll(html.EscapeString(*p.source), "\n", "<br />")
			writeModule(w, moduleResponse{Status: "ok", Body: `<h1>Page source</h1><div class="page-source">` + src + `</div>`})
			return
		}
		writeModule(w, moduleResponse{Status: "not_ok", Message: "no such page"})

	default:
		writeModule(w, moduleResponse{Status: "not_ok", Message: "unknown module"})
	}
}

func (f *fakeWikidot) page(w http.ResponseWriter, r *http.Request, sub string) {
	site, ok := f.sites[sub]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if r.URL.Path == "/" {
		fmt.Fprintf(w, `<html><head><title>%s</title><script>
WIKIREQUEST.info.siteId = %d;
WIKIREQUEST.info.siteUnixName = "%s";
</script></head><body></body></html>`, site.title, site.id, sub)
		return
	}

	if strings.HasSuffix(r.URL.Path, pageIDSuffix) {
		fullname := strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, pageIDSuffix), "/")
		if p, ok := site.pages[fullname]; ok {
			fmt.Fprintf(w, "<script>WIKIREQUEST.info.pageId = %d;</script>", p.id)
			return
		}
	}
	http.NotFound(w, r)
}

func renderListPages(p fakePage) string {
	set := func(name, value string) string {
		return fmt.Sprintf(`<span class="set %s"><span class="name"> %s </span><span class="value"> %s </span></span>`, name, name, value)
	}

	var createdBy string
	if p.createdBy != "" {
		createdBy = `<span class="printuser avatarhover"><a href="http://www.wikidot.com/user:info/x"><img class="small" src="a.png" alt="` +
			p.createdBy + `"/></a><a href="http://www.wikidot.com/user:info/x">` + html.EscapeString(p.createdBy) + `</a></span>`
	}
	var createdAt string
	if p.createdAt != 0 {
		createdAt = fmt.Sprintf(`<span class="odate time_%d format_%%25e%%20%%25b%%20%%25Y">01 Jan 2021</span>`, p.createdAt)
	}

	return `<div class="list-pages-box"><div class="page">` +
		set("fullname", p.fullname) +
		set("name", p.name) +
		set("title", html.EscapeString(p.title)) +
		set("category", p.category) +
		set("created_at", createdAt) +
		set("created_by_linked", createdBy) +
		set("size", fmt.Sprint(p.size)) +
		`</div></div>`
}

func writeModule(w http.ResponseWriter, resp moduleResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
