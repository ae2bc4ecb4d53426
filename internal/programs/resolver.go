package programs

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jonathan/career-pathway/internal/types"
)

// credentialPrefixes are stripped in order; each is applied to the result of the previous.
var credentialPrefixes = compilePrefixes(
	"Associate in Arts in ",
	"Associate in Science in ",
	"Associate in ",
	"Bachelor of Science in ",
	"Bachelor of Arts in ",
	"Bachelor of Applied Sciences in ",
	"Bachelor of Applied Science in ",
	"Bachelor of ",
	"Certificate in ",
	"Certificate ",
)

// optionSeparators split a name listing alternatives, tried in order.
var optionSeparators = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+or\s+`),
	regexp.MustCompile(`(?i)\s+and\s+`),
	regexp.MustCompile(`,\s+`),
}

var (
	engineeringSpecialization = regexp.MustCompile(`(?i)engineering\s+-\s+(.*)$`)
	nonSlugChars              = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacing               = regexp.MustCompile(`[\s-]+`)
)

func compilePrefixes(prefixes ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, regexp.MustCompile(`(?i)^`+regexp.QuoteMeta(p)))
	}
	return out
}

// Resolver produces catalog URLs for program names. It is safe for concurrent use.
type Resolver struct {
	catalog *Catalog
	baseURL string
}

// Resolution is the outcome of resolving one program name.
type Resolution struct {
	URL  string
	Tier string
}

// Matched reports whether a catalog table supplied the URL.
func (r Resolution) Matched() bool {
	return r.Tier != ""
}

// NewResolver builds a resolver over catalog. baseURL overrides the catalog's base URL when set.
func NewResolver(catalog *Catalog, baseURL string) (*Resolver, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if baseURL == "" {
		baseURL = catalog.BaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid program base URL %q", baseURL)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Resolver{catalog: catalog, baseURL: baseURL}, nil
}

// Catalog returns the resolver's catalog.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve returns a URL for name. Table matches win over synthesized slugs.
// Only the first listed alternative is resolved. A catalog phrase that itself
// spans a separator ("Surveying and Mapping") is matched against the unsplit
// subject first, but only when it starts at the first alternative.
func (r *Resolver) Resolve(name string) Resolution {
	name = strings.TrimSpace(name)
	subject := Subject(FirstOption(name))

	if full := Subject(name); full != subject {
		if tier, slug, ok := r.catalog.lookupSpanning(full, subject); ok {
			return Resolution{URL: r.url(slug), Tier: tier}
		}
	}

	if tier, slug, ok := r.catalog.Lookup(subject); ok {
		return Resolution{URL: r.url(slug), Tier: tier}
	}

	return Resolution{URL: r.url(Slugify(subject))}
}

// Link returns the outbound link for a pathway step, if it should have one.
// Transfer steps link to the transfer agreements page.
func (r *Resolver) Link(step types.PathwayStep) (string, bool) {
	switch {
	case step.Type == types.StepTransfer && r.catalog.TransferURL != "":
		return r.catalog.TransferURL, true
	case r.catalog.ShouldLink(step):
		return r.Resolve(step.Name).URL, true
	default:
		return "", false
	}
}

// Describe resolves the step's name and reports whether the step would carry a
// link in a pathway. When the link differs from the resolved URL (transfer steps)
// the link wins and no tier is reported.
func (r *Resolver) Describe(step types.PathwayStep) types.ResolveProgramResponse {
	res := r.Resolve(step.Name)
	resp := types.ResolveProgramResponse{URL: res.URL, Tier: res.Tier}
	if link, ok := r.Link(step); ok {
		if link != res.URL {
			resp.Tier = ""
		}
		resp.URL = link
		resp.Linked = true
	}
	return resp
}

func (r *Resolver) url(slug string) string {
	if slug == "" {
		return r.baseURL
	}
	return r.baseURL + slug + "/"
}

// FirstOption returns the first alternative when name lists several.
func FirstOption(name string) string {
	for _, sep := range optionSeparators {
		if parts := sep.Split(name, 2); len(parts) > 1 {
			return strings.TrimSpace(parts[0])
		}
	}
	return strings.TrimSpace(name)
}

// Subject strips credential prefixes and rewrites "Engineering - X" as "X Engineering".
func Subject(name string) string {
	subject := strings.TrimSpace(name)
	for _, prefix := range credentialPrefixes {
		subject = prefix.ReplaceAllString(subject, "")
	}
	subject = strings.TrimSpace(subject)

	if m := engineeringSpecialization.FindStringSubmatch(subject); m != nil {
		if spec := strings.TrimSpace(m[1]); spec != "" {
			subject = FirstOption(spec) + " Engineering"
		}
	}
	return subject
}

// Slugify lowercases s and drops everything but letters and digits.
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "")
	return slugSpacing.ReplaceAllString(slug, "")
}

// IsBachelorsProgram reports whether name contains one of the catalog's bachelor's titles.
func (c *Catalog) IsBachelorsProgram(name string) bool {
	normalized := normalizeKey(name)
	if normalized == "" {
		return false
	}
	for _, title := range c.Bachelors {
		if t := normalizeKey(title); t != "" && strings.Contains(normalized, t) {
			return true
		}
	}
	return false
}

// IsAssociateInArtsProgram reports whether name is "Associate in Arts in <subject>".
// Engineering subjects must name a specialization after the dash.
func IsAssociateInArtsProgram(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	const prefix = "associate in arts in"
	if !strings.HasPrefix(normalized, prefix) {
		return false
	}

	subject := strings.TrimSpace(strings.TrimPrefix(normalized, prefix))
	if subject == "" {
		return false
	}
	if _, spec, found := strings.Cut(subject, "engineering -"); found {
		return strings.TrimSpace(spec) != ""
	}
	return true
}

// ShouldLink reports whether a degree step names a program offered by the college.
// College associate and certificate programs link; bachelor's degrees link only when
// they are in the catalog's bachelor's list.
func (c *Catalog) ShouldLink(step types.PathwayStep) bool {
	if step.Type != types.StepDegree {
		return false
	}

	name := strings.ToLower(step.Name)
	atCollege := c.ShortName != "" && strings.Contains(step.Level, c.ShortName)
	bachelor := strings.Contains(name, "bachelor")

	switch {
	case atCollege && !bachelor && (strings.Contains(name, "associate in science") || IsAssociateInArtsProgram(step.Name)):
		return true
	case strings.Contains(name, "certificate"):
		return true
	case bachelor:
		return c.IsBachelorsProgram(step.Name)
	default:
		return false
	}
}
