package programs

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-pathway/internal/fetch"
)

// Program is one program title and slug scraped from a catalog listing page.
type Program struct {
	Title string
	Slug  string
}

// credentialWords mark anchor text that names a program rather than site navigation.
var credentialWords = []string{"associate", "bachelor", "certificate", "college credit"}

// ParseCatalogPage extracts program links from a listing page. Only links to a
// single-segment path on the base host are kept, e.g. https://www.mdc.edu/nursing/.
func ParseCatalogPage(doc *goquery.Document, pageURL, baseURL string) []Program {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var programs []Program
	seen := make(map[string]bool)

	fetch.MainContent(doc, fetch.CatalogSelectors()).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		title := strings.Join(strings.Fields(a.Text()), " ")
		if !namesProgram(title) {
			return
		}

		href, _ := a.Attr("href")
		link, err := page.Parse(strings.TrimSpace(href))
		if err != nil || !strings.EqualFold(link.Host, base.Host) {
			return
		}

		slug := strings.ToLower(strings.Trim(link.Path, "/"))
		if slug == "" || strings.Contains(slug, "/") || strings.Contains(slug, ".") {
			return
		}

		key := title + "\x00" + slug
		if seen[key] {
			return
		}
		seen[key] = true
		programs = append(programs, Program{Title: title, Slug: slug})
	})

	return programs
}

func namesProgram(title string) bool {
	lower := strings.ToLower(title)
	for _, w := range credentialWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// SyncCatalog fetches every tier's source page concurrently and rebuilds the tier
// tables from the links found there. Tiers without a source are copied unchanged.
// Within a tier, longer phrases are ordered first so they win over their substrings.
func SyncCatalog(ctx context.Context, current *Catalog, opts *fetch.Options) (*Catalog, error) {
	if current == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	tiers := make([]Tier, len(current.Tiers))
	scraped := make([][]Program, len(current.Tiers))

	g, gctx := errgroup.WithContext(ctx)
	for i, tier := range current.Tiers {
		tiers[i] = tier
		if tier.Source == "" {
			continue
		}
		g.Go(func() error {
			result, err := fetch.URL(gctx, tier.Source, opts)
			if err != nil {
				return fmt.Errorf("tier %s: %w", tier.Name, err)
			}
			doc, err := result.Document()
			if err != nil {
				return fmt.Errorf("tier %s: %w", tier.Name, err)
			}
			programs := ParseCatalogPage(doc, tier.Source, current.BaseURL)
			if len(programs) == 0 {
				return fmt.Errorf("tier %s: no programs found at %s", tier.Name, tier.Source)
			}
			scraped[i] = programs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	synced := &Catalog{
		College:     current.College,
		ShortName:   current.ShortName,
		BaseURL:     current.BaseURL,
		TransferURL: current.TransferURL,
		Bachelors:   current.Bachelors,
		Tiers:       tiers,
	}

	for i, programs := range scraped {
		if programs == nil {
			continue
		}
		synced.Tiers[i].Entries = entriesFor(programs)
		if tiers[i].Name == TierBachelors {
			synced.Bachelors = titlesOf(programs)
		}
	}

	return synced, nil
}

func entriesFor(programs []Program) []Entry {
	entries := make([]Entry, 0, len(programs))
	seen := make(map[string]bool)
	for _, p := range programs {
		match := normalizeKey(Subject(p.Title))
		if match == "" || seen[match] {
			continue
		}
		seen[match] = true
		entries = append(entries, Entry{Match: match, Slug: p.Slug})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Match) > len(entries[j].Match)
	})
	return entries
}

func titlesOf(programs []Program) []string {
	titles := make([]string, 0, len(programs))
	seen := make(map[string]bool)
	for _, p := range programs {
		if !seen[p.Title] {
			seen[p.Title] = true
			titles = append(titles, p.Title)
		}
	}
	return titles
}
