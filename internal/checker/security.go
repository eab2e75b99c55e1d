package checker

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/hostenv"
	"github.com/khanhnv2901/wpinspect/internal/probe"
	consts "github.com/khanhnv2901/wpinspect/internal/shared/constants"
)

const (
	restUsersPath = "/wp-json/wp/v2/users"
	xmlrpcPath    = "/xmlrpc.php"
	readmePath    = "/readme.html"

	defaultRole = "subscriber"
)

const listMethodsCall = `<?xml version="1.0"?>
<methodCall><methodName>system.listMethods</methodName><params></params></methodCall>`

var defaultAdminLogins = []string{"admin", "administrator"}

// RESTUserEnumeration fails when the public users endpoint lists accounts.
func RESTUserEnumeration(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "The users endpoint reveals login slugs, handing attackers half of every credential pair."
	fix := "Restrict /wp-json/wp/v2/users to authenticated requests with a security plugin or a rest_endpoints filter."

	resp, err := d.get(ctx, restUsersPath, nil)
	if err != nil {
		return audit.Warn(TitleRESTUsers, "Unable to verify the REST users endpoint: the request failed.", explanation, fix), nil
	}
	if resp.StatusCode != http.StatusOK {
		return audit.Pass(TitleRESTUsers, fmt.Sprintf("REST users endpoint is not public (HTTP %d).", resp.StatusCode), explanation), nil
	}

	users := exposedUsers(resp.Body)
	if len(users) == 0 {
		return audit.Pass(TitleRESTUsers, "REST users endpoint exposes no user data.", explanation), nil
	}
	return audit.Fail(TitleRESTUsers,
		fmt.Sprintf("REST API exposes %d user(s): %s.", len(users), strings.Join(users, ", ")),
		explanation, fix), nil
}

// exposedUsers returns an identifier for every record in a users listing
// that carries an id, slug or name.
func exposedUsers(body []byte) []string {
	if !gjson.ValidBytes(body) {
		return nil
	}
	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		return nil
	}

	var users []string
	list.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			return true
		}
		id, slug, name := record.Get("id"), record.Get("slug"), record.Get("name")
		switch {
		case slug.Exists() && slug.String() != "":
			users = append(users, slug.String())
		case name.Exists() && name.String() != "":
			users = append(users, name.String())
		case id.Exists():
			users = append(users, "#"+id.String())
		}
		return true
	})
	return users
}

// xmlrpcResponse is the subset of an XML-RPC methodResponse we inspect.
type xmlrpcResponse struct {
	XMLName xml.Name  `xml:"methodResponse"`
	Methods []string  `xml:"params>param>value>array>data>value>string"`
	Fault   *struct{} `xml:"fault"`
}

// XMLRPC probes the legacy RPC endpoint with system.listMethods. Redirects
// are re-posted to their target so a canonical-host hop is not mistaken for
// a blocked endpoint.
func XMLRPC(ctx context.Context, d Deps) (audit.Result, error) {
	endpoint := probe.Endpoint(d.SiteURL, xmlrpcPath)
	explanation := "XML-RPC allows amplified brute-force logins through system.multicall and pingback abuse."
	fix := "Disable XML-RPC with the xmlrpc_enabled filter, a security plugin, or by denying /xmlrpc.php at the web server."

	resp, err := listMethods(ctx, d.Probe, endpoint)
	if err != nil {
		switch {
		case probe.IsRefused(err):
			return audit.Pass(TitleXMLRPC, fmt.Sprintf("XML-RPC endpoint %s refused the connection.", endpoint), explanation), nil
		case probe.IsTimeout(err):
			return audit.Warn(TitleXMLRPC, fmt.Sprintf("Unable to verify XML-RPC at %s: the request timed out.", endpoint), explanation, fix), nil
		}
		reason := "the request failed"
		if kind := probe.KindOf(err); kind != "" {
			reason = fmt.Sprintf("the request failed (%s)", kind)
		}
		return audit.Warn(TitleXMLRPC, fmt.Sprintf("Unable to verify XML-RPC at %s: %s.", endpoint, reason), explanation, fix), nil
	}
	endpoint = resp.URL

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
		return audit.Pass(TitleXMLRPC, fmt.Sprintf("XML-RPC is blocked at %s (HTTP %d).", endpoint, resp.StatusCode), explanation), nil
	case http.StatusOK:
		var parsed xmlrpcResponse
		if err := xml.Unmarshal(resp.Body, &parsed); err == nil && parsed.Fault == nil && len(parsed.Methods) > 0 {
			return audit.Fail(TitleXMLRPC,
				fmt.Sprintf("XML-RPC is enabled at %s and lists %d methods.", endpoint, len(parsed.Methods)),
				explanation, fix), nil
		}
	}

	return audit.Warn(TitleXMLRPC,
		fmt.Sprintf("XML-RPC at %s returned an ambiguous response (HTTP %d).", endpoint, resp.StatusCode),
		explanation, fix), nil
}

// listMethods posts the system.listMethods call, re-posting to each redirect
// target. A chain longer than the redirect limit returns the last 3xx.
func listMethods(ctx context.Context, p Prober, endpoint string) (*probe.Response, error) {
	header := http.Header{}
	header.Set("Content-Type", "text/xml")

	target := endpoint
	for hop := 0; ; hop++ {
		resp, err := p.Do(ctx, probe.Request{
			Method: http.MethodPost,
			URL:    target,
			Header: header,
			Body:   listMethodsCall,
		})
		if err != nil {
			return nil, err
		}
		next, ok := resp.Redirect()
		if !ok || hop >= consts.MaxProbeRedirects {
			return resp, nil
		}
		target = next
	}
}

// UserRegistration grades open registration by the role new users receive.
func UserRegistration(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "Open registration lets anyone create an account, which is a common spam and privilege-escalation vector."
	fix := "Uncheck \"Anyone can register\" under Settings > General unless the site needs it."

	if !hostenv.IsTruthy(d.Env.Option(hostenv.OptionUsersCanRegister)) {
		return audit.Pass(TitleUserRegistration, "User registration is disabled.", explanation), nil
	}

	role := strings.ToLower(d.Env.Option(hostenv.OptionDefaultRole))
	if role == "" {
		role = defaultRole
	}
	if role == defaultRole {
		return audit.Warn(TitleUserRegistration, "User registration is enabled (new users become subscribers).", explanation, fix), nil
	}
	return audit.Fail(TitleUserRegistration,
		fmt.Sprintf("User registration is enabled and new users receive the %q role.", role),
		explanation,
		"Set the default role to Subscriber, or disable registration under Settings > General."), nil
}

// VersionDisclosure looks for the WordPress version in public output.
func VersionDisclosure(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "A visible version number lets attackers match the site against known vulnerabilities."
	fix := "Remove the generator tag, strip ver= from core asset URLs, and delete readme.html."

	resp, err := d.home(ctx)
	if err != nil {
		return audit.Warn(TitleVersionDisclosure, "Unable to verify version disclosure: the home page could not be fetched.", explanation, fix), nil
	}

	var sources []string
	pg := parsePage(resp.Body, resp.URL)
	if v := pg.generatorVersion(); v != "" {
		sources = append(sources, fmt.Sprintf("generator tag (version %s)", v))
	} else if pg.generator != "" {
		sources = append(sources, fmt.Sprintf("generator tag (%s)", pg.generator))
	}
	if len(pg.coreVersions) > 0 {
		sources = append(sources, fmt.Sprintf("core asset ver= (%s)", strings.Join(pg.coreVersions, ", ")))
	}
	if readme, err := d.get(ctx, readmePath, nil); err == nil &&
		readme.StatusCode == http.StatusOK && strings.Contains(string(readme.Body), "WordPress") {
		sources = append(sources, readmePath)
	}

	if len(sources) == 0 {
		return audit.Pass(TitleVersionDisclosure, "WordPress version is not exposed.", explanation), nil
	}
	return audit.Fail(TitleVersionDisclosure,
		"WordPress version exposed via "+strings.Join(sources, "; ")+".",
		explanation, fix), nil
}

// HTTPS checks TLS delivery and that the configured URLs use https.
func HTTPS(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "Without HTTPS, logins and cookies travel in clear text and browsers flag the site as not secure."

	resp, err := d.home(ctx)
	if err != nil {
		return audit.Warn(TitleHTTPS, "Unable to verify HTTPS: the home page could not be fetched.", explanation,
			"Make sure the site is reachable and serves a valid certificate."), nil
	}
	if !probe.ServedOverTLS(resp) {
		return audit.Fail(TitleHTTPS, "Site is not served over HTTPS.", explanation,
			"Install a TLS certificate (for example from Let's Encrypt) and redirect all HTTP traffic to HTTPS."), nil
	}

	var insecure []string
	for _, opt := range []string{hostenv.OptionHome, hostenv.OptionSiteURL} {
		if !probe.IsHTTPS(d.Env.Option(opt)) {
			insecure = append(insecure, opt)
		}
	}
	if len(insecure) > 0 {
		return audit.Warn(TitleHTTPS,
			fmt.Sprintf("TLS is active but %s not set to https.", strings.Join(insecure, " and ")),
			explanation,
			"Update the WordPress Address and Site Address under Settings > General to https URLs."), nil
	}
	return audit.Pass(TitleHTTPS, "Site is served over HTTPS and configured URLs use https.", explanation), nil
}

// FileEditing fails when the dashboard file editor is available.
func FileEditing(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "The built-in editor lets anyone with an admin session write PHP straight to the server."

	if d.Env.ConfigFlag(hostenv.FlagDisallowFileMods) || d.Env.ConfigFlag(hostenv.FlagDisallowFileEdit) {
		return audit.Pass(TitleFileEditing, "Dashboard file editing is disabled.", explanation), nil
	}
	return audit.Fail(TitleFileEditing, "Dashboard file editing is enabled.", explanation,
		"Add define('DISALLOW_FILE_EDIT', true); to wp-config.php."), nil
}

// DatabasePrefix warns on the default table prefix.
func DatabasePrefix(ctx context.Context, d Deps) (audit.Result, error) {
	prefix := d.Env.TablePrefix()
	explanation := "The default prefix makes automated SQL injection payloads work without adjustment."

	if strings.EqualFold(prefix, hostenv.DefaultPrefix) {
		return audit.Warn(TitleDatabasePrefix, "Database uses the default wp_ table prefix.", explanation,
			"Rename the tables to a custom prefix and update $table_prefix in wp-config.php, after taking a backup."), nil
	}
	return audit.Pass(TitleDatabasePrefix, fmt.Sprintf("Database uses a custom table prefix (%s).", prefix), explanation), nil
}

// DefaultAdmin fails when a well-known administrator login exists.
func DefaultAdmin(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "Brute-force tools try \"admin\" first; a predictable login halves the work."

	var found []string
	for _, login := range defaultAdminLogins {
		if d.Env.UserExists(login) {
			found = append(found, login)
		}
	}
	if len(found) == 0 {
		return audit.Pass(TitleDefaultAdmin, "No default administrator username found.", explanation), nil
	}
	return audit.Fail(TitleDefaultAdmin,
		fmt.Sprintf("Default username in use: %s.", strings.Join(found, ", ")),
		explanation,
		"Create a new administrator with a unique login, reassign content to it, and delete the old account."), nil
}
