package checker

import (
	"bytes"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	generatorPattern = regexp.MustCompile(`(?i)^WordPress(?:\s+([0-9]+\.[0-9]+(?:\.[0-9]+)?))?`)
	versionPattern   = regexp.MustCompile(`^[0-9]+\.[0-9]+(\.[0-9]+)?$`)
)

// page holds what the checks need from a rendered HTML document.
type page struct {
	// generator is the WordPress generator meta content, "" when absent.
	generator string
	// coreVersions are distinct ver= values found on core (wp-includes,
	// wp-admin) script and style URLs.
	coreVersions []string
	// assetHosts are the distinct hosts referenced by src/href attributes.
	assetHosts []string
}

// parsePage tokenizes body and collects generator, core asset and host
// information. Malformed markup is tolerated.
func parsePage(body []byte, base string) page {
	var p page
	baseURL, _ := url.Parse(base)
	hosts := make(map[string]struct{})
	versions := make(map[string]struct{})

	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		tok := z.Token()
		switch tok.DataAtom {
		case atom.Meta:
			if strings.EqualFold(attr(tok, "name"), "generator") {
				content := strings.TrimSpace(attr(tok, "content"))
				if p.generator == "" && generatorPattern.MatchString(content) {
					p.generator = content
				}
			}
		case atom.Script, atom.Link, atom.Img, atom.Source, atom.Iframe:
			ref := attr(tok, "src")
			if ref == "" {
				ref = attr(tok, "href")
			}
			if ref == "" {
				continue
			}
			u, err := url.Parse(strings.TrimSpace(ref))
			if err != nil {
				continue
			}
			if baseURL != nil {
				u = baseURL.ResolveReference(u)
			}
			if h := strings.ToLower(u.Hostname()); h != "" {
				hosts[h] = struct{}{}
			}
			if isCoreAsset(u.Path) {
				if ver := u.Query().Get("ver"); versionPattern.MatchString(ver) {
					versions[ver] = struct{}{}
				}
			}
		}
	}

	p.assetHosts = sortedKeys(hosts)
	p.coreVersions = sortedKeys(versions)
	return p
}

// generatorVersion returns the version advertised by the generator tag.
func (p page) generatorVersion() string {
	m := generatorPattern.FindStringSubmatch(p.generator)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func isCoreAsset(path string) bool {
	return strings.Contains(path, "/wp-includes/") || strings.Contains(path, "/wp-admin/")
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
