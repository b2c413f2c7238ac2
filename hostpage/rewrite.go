// Package hostpage runs TypeScript embedded in HTML pages: script elements
// of type text/typescript are transpiled and replaced by module scripts, and
// the modules they import are transpiled and inlined as data URLs.
package hostpage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dhamidi/typestripped/strip"
)

var log = commonlog.GetLogger("typestripped.hostpage")

// ScriptType marks script elements holding TypeScript.
const ScriptType = "text/typescript"

// Rewriter transpiles host pages and the modules they import. Every module
// is fetched and transpiled once per Rewriter; later imports of the same
// absolute URL reuse the cached reference.
type Rewriter struct {
	fetcher Fetcher

	mu         sync.Mutex
	cache      map[string]string
	inProgress map[string]bool
}

func NewRewriter(fetcher Fetcher) *Rewriter {
	return &Rewriter{
		fetcher:    fetcher,
		cache:      make(map[string]string),
		inProgress: make(map[string]bool),
	}
}

// RewriteHTML replaces every TypeScript script element of the page read
// from r. Inline scripts are transpiled in place; scripts with a src
// attribute are fetched relative to base and inlined. A script that fails
// is logged and left unchanged.
func (r *Rewriter) RewriteHTML(in io.Reader, base *url.URL) ([]byte, error) {
	doc, err := html.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for _, script := range findScripts(doc) {
		if err := r.replaceScript(script, base); err != nil {
			log.Errorf("%s", err)
		}
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func findScripts(n *html.Node) []*html.Node {
	var scripts []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && attr(n, "type") == ScriptType {
			scripts = append(scripts, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return scripts
}

func (r *Rewriter) replaceScript(n *html.Node, base *url.URL) error {
	var js string
	if src := attr(n, "src"); src != "" {
		u, err := base.Parse(src)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", src, err)
		}
		js, err = r.transpileURL(u, src)
		if err != nil {
			return err
		}
	} else {
		var err error
		js, err = r.transpile(text(n), base, false)
		if err != nil {
			return err
		}
	}
	setAttr(n, "type", "module")
	removeAttr(n, "src")
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: js})
	return nil
}

// TransformImport rewrites an import specifier of the page at base.
// Specifiers ending in .js and bare package names are kept. Anything else
// is fetched, transpiled and replaced by a data URL. A module that is still
// being transpiled, which happens on import cycles, is referenced by its
// absolute URL.
func (r *Rewriter) TransformImport(base *url.URL, specifier string) (string, error) {
	return r.transformImport(base, specifier, false)
}

// transformImport also serves code that does not run at base: a data URL
// or a src script inlined into a page cannot resolve relative specifiers,
// so relative .js specifiers of such code are made absolute.
func (r *Rewriter) transformImport(base *url.URL, specifier string, inlined bool) (string, error) {
	if isBare(specifier) {
		return specifier, nil
	}
	u, err := base.Parse(specifier)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", specifier, err)
	}
	if u.Scheme == "data" {
		return specifier, nil
	}
	if strings.HasSuffix(u.Path, ".js") {
		if inlined && isRelative(specifier) {
			return u.String(), nil
		}
		return specifier, nil
	}
	key := u.String()

	r.mu.Lock()
	if ref, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return ref, nil
	}
	if r.inProgress[key] {
		r.mu.Unlock()
		return key, nil
	}
	r.inProgress[key] = true
	r.mu.Unlock()

	js, err := r.transpileURL(u, specifier)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inProgress, key)
	if err != nil {
		return "", err
	}
	ref := "data:text/javascript;base64," + base64.StdEncoding.EncodeToString([]byte(js))
	r.cache[key] = ref
	log.Debugf("transformed import %s", key)
	return ref, nil
}

func (r *Rewriter) transpileURL(u *url.URL, display string) (string, error) {
	src, err := r.fetcher.Fetch(u)
	if err != nil {
		return "", err
	}
	js, err := r.transpile(string(src), u, true)
	if err != nil {
		return "", err
	}
	return js + "\n//# sourceURL=" + display, nil
}

func (r *Rewriter) transpile(src string, base *url.URL, inlined bool) (string, error) {
	js, err := strip.Transpile(src,
		strip.WithFile(base.String()),
		strip.WithRecover(),
		strip.WithLogger(log),
		strip.WithImportTransform(func(specifier string) (string, error) {
			return r.transformImport(base, specifier, inlined)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("transpile %s: %w", base, err)
	}
	return js, nil
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isBare(specifier string) bool {
	if isRelative(specifier) || strings.HasPrefix(specifier, "/") {
		return false
	}
	u, err := url.Parse(specifier)
	return err != nil || u.Scheme == ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

func text(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
