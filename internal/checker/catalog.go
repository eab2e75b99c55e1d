package checker

import (
	"context"

	"github.com/khanhnv2901/wpinspect/internal/audit"
)

// Check titles. They are stable and double as result identifiers.
const (
	TitleActivePlugins = "Active plugins"
	TitlePageCache     = "Page cache"
	TitleObjectCache   = "Object cache"
	TitleCDN           = "CDN"
	TitleCompression   = "Compression"
	TitlePHPVersion    = "PHP version"
	TitleMemoryLimit   = "Memory limit"
	TitleDebugMode     = "Debug mode"

	TitleRESTUsers         = "REST API user enumeration"
	TitleXMLRPC            = "XML-RPC"
	TitleUserRegistration  = "User registration"
	TitleVersionDisclosure = "Version disclosure"
	TitleHTTPS             = "HTTPS"
	TitleFileEditing       = "File editing"
	TitleDatabasePrefix    = "Database prefix"
	TitleDefaultAdmin      = "Default admin username"
)

// Spec describes a check for listings.
type Spec struct {
	Category    audit.Category `json:"category" yaml:"category"`
	Title       string         `json:"title" yaml:"title"`
	Source      string         `json:"source" yaml:"source"`
	Description string         `json:"description" yaml:"description"`
	Run         Func           `json:"-" yaml:"-"`
}

// Source labels.
const (
	SourceHost  = "host configuration"
	SourceProbe = "HTTP probe"
)

var performanceChecks = []Spec{
	{Title: TitleActivePlugins, Source: SourceHost, Description: "Counts active plugins (pass <=15, warn 16-25, fail >25).", Run: ActivePlugins},
	{Title: TitlePageCache, Source: SourceHost, Description: "Requires WP_CACHE or a known page cache plugin.", Run: PageCache},
	{Title: TitleObjectCache, Source: SourceHost, Description: "Looks for a persistent object cache backend or object-cache.php drop-in.", Run: ObjectCache},
	{Title: TitleCDN, Source: SourceProbe, Description: "Detects a CDN from response headers, edge IP ranges and asset hostnames.", Run: CDN},
	{Title: TitleCompression, Source: SourceProbe, Description: "Requires gzip or deflate Content-Encoding on the home page.", Run: Compression},
	{Title: TitlePHPVersion, Source: SourceHost, Description: "Grades the PHP version (pass >=8.1, warn 7.4-8.0, fail <7.4).", Run: PHPVersion},
	{Title: TitleMemoryLimit, Source: SourceHost, Description: "Grades the effective memory limit (pass >=256M, warn 128-255M, fail <128M).", Run: MemoryLimit},
	{Title: TitleDebugMode, Source: SourceHost, Description: "Fails when WP_DEBUG output is displayed to visitors.", Run: DebugMode},
}

var securityChecks = []Spec{
	{Title: TitleRESTUsers, Source: SourceProbe, Description: "Fetches /wp-json/wp/v2/users and fails when user records are listed.", Run: RESTUserEnumeration},
	{Title: TitleXMLRPC, Source: SourceProbe, Description: "Calls system.listMethods on /xmlrpc.php and fails when it answers.", Run: XMLRPC},
	{Title: TitleUserRegistration, Source: SourceHost, Description: "Grades open registration by the default role.", Run: UserRegistration},
	{Title: TitleVersionDisclosure, Source: SourceProbe, Description: "Looks for the version in the generator tag, core asset URLs and readme.html.", Run: VersionDisclosure},
	{Title: TitleHTTPS, Source: SourceProbe, Description: "Requires TLS and https home/siteurl options.", Run: HTTPS},
	{Title: TitleFileEditing, Source: SourceHost, Description: "Requires DISALLOW_FILE_EDIT or DISALLOW_FILE_MODS.", Run: FileEditing},
	{Title: TitleDatabasePrefix, Source: SourceHost, Description: "Warns on the default wp_ table prefix.", Run: DatabasePrefix},
	{Title: TitleDefaultAdmin, Source: SourceHost, Description: "Fails when an admin or administrator login exists.", Run: DefaultAdmin},
}

// Catalog lists every check in report order.
func Catalog() []Spec {
	var out []Spec
	for _, c := range audit.Categories() {
		out = append(out, Specs(c)...)
	}
	return out
}

// Specs returns the checks of one category in their fixed order.
func Specs(category audit.Category) []Spec {
	var src []Spec
	switch category {
	case audit.Performance:
		src = performanceChecks
	case audit.Security:
		src = securityChecks
	default:
		return nil
	}

	out := make([]Spec, len(src))
	for i, s := range src {
		s.Category = category
		out[i] = s
	}
	return out
}

// Checks binds the checks of category to d.
func Checks(category audit.Category, d Deps) []audit.Check {
	specs := Specs(category)
	checks := make([]audit.Check, len(specs))
	for i, s := range specs {
		checks[i] = audit.Check{Title: s.Title, Run: bind(s.Run, d)}
	}
	return checks
}

// Register adds both batteries to r.
func Register(r *audit.Runner, d Deps) {
	for _, c := range audit.Categories() {
		r.Register(c, Checks(c, d)...)
	}
}

func bind(fn Func, d Deps) audit.Func {
	return func(ctx context.Context) (audit.Result, error) {
		return fn(ctx, d)
	}
}
