package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"oc-showtimes/internal/classify"
	"oc-showtimes/internal/model"
	"oc-showtimes/internal/normalize"
	"oc-showtimes/internal/render"
)

// Regal has no public showtime API, so this adapter scrapes the rendered
// theater page. The page is an obfuscated React app: the emotion class
// fragments below are the shapes observed in production, and because they
// are not contractually stable the adapter also carries a structural
// fallback that works from the title anchors instead.
const (
	regalContainerSel = `div[class*='e1hace1532']`
	regalFormatRowSel = `div[class*='e1hace1540']`
)

var regalTitleSuffixRe = regexp.MustCompile(`(?i)\(Open Cap/Eng Sub\)`)

// Regal is the rendered-page-strategy adapter.
type Regal struct {
	session render.Session
	log     *zap.Logger
}

// NewRegal creates the adapter around an injected render session.
func NewRegal(session render.Session, log *zap.Logger) *Regal {
	return &Regal{session: session, log: log}
}

// FetchShowings implements Adapter.
func (r *Regal) FetchShowings(ctx context.Context, theater model.Theater, date normalize.Date) ([]model.Showing, error) {
	pageURL := fmt.Sprintf("%s?date=%s", theater.BookingURL, regalDate(date))

	rendered, err := r.session.HTML(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching Regal page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	containers := collectContainers(doc)
	if len(containers) == 0 {
		r.log.Debug("no showing containers matched",
			zap.String("theater", theater.Name),
			zap.String("date", date.String()))
		return nil, nil
	}

	var showings []model.Showing
	for _, container := range containers {
		showings = append(showings, parseContainer(container, theater, date, pageURL)...)
	}
	return showings, nil
}

// collectContainers finds per-title showing containers: first via the
// known class fragment, then structurally from the title anchors when the
// markup has shifted.
func collectContainers(doc *goquery.Document) []*goquery.Selection {
	var containers []*goquery.Selection
	doc.Find(regalContainerSel).Each(func(_ int, s *goquery.Selection) {
		containers = append(containers, s)
	})
	if len(containers) > 0 {
		return containers
	}

	seen := make(map[*html.Node]bool)
	doc.Find(`a[aria-label]`).Each(func(_ int, a *goquery.Selection) {
		p := a.Parent()
		for depth := 0; depth < 8 && p.Length() > 0; depth++ {
			if hasOCLabel(p) {
				node := p.Get(0)
				if !seen[node] {
					seen[node] = true
					containers = append(containers, p)
				}
				return
			}
			p = p.Parent()
		}
	})

	// An anchor without an OC label of its own can climb into a shared
	// ancestor whose label belongs to a sibling title. Keep only the
	// innermost containers.
	var innermost []*goquery.Selection
	for _, c := range containers {
		encloses := false
		for _, other := range containers {
			if c.Get(0) != other.Get(0) && containsNode(c.Get(0), other.Get(0)) {
				encloses = true
				break
			}
		}
		if !encloses {
			innermost = append(innermost, c)
		}
	}
	return innermost
}

func containsNode(ancestor, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// parseContainer extracts the OC showings of one title container.
func parseContainer(container *goquery.Selection, theater model.Theater, date normalize.Date, pageURL string) []model.Showing {
	title, ok := container.Find(`a[aria-label]`).First().Attr("aria-label")
	if !ok {
		return nil
	}
	title = strings.TrimSpace(regalTitleSuffixRe.ReplaceAllString(title, ""))
	if title == "" {
		return nil
	}

	label := findOCLabel(container)
	if label == nil {
		return nil
	}

	formatRow := label.Closest(regalFormatRowSel)
	if formatRow.Length() == 0 {
		// The format row class moved; climb until something holds the
		// showtime buttons, but never past this title's container.
		for p := label.Parent(); p.Length() > 0; p = p.Parent() {
			if p.Find("button").Length() > 0 {
				formatRow = p
				break
			}
			if p.Get(0) == container.Get(0) {
				break
			}
		}
	}
	if formatRow.Length() == 0 {
		return nil
	}

	var showings []model.Showing
	formatRow.Find("button").Each(func(_ int, btn *goquery.Selection) {
		showtime, err := normalize.Canonical(date, strings.TrimSpace(btn.Text()))
		if err != nil {
			// Not every button is a showtime; skip the rest.
			return
		}
		showings = append(showings, model.Showing{
			Title:        title,
			TheaterName:  theater.Name,
			TheaterCity:  theater.City,
			TheaterState: theater.State,
			TheaterZip:   theater.Zip,
			Showtime:     showtime,
			URL:          pageURL,
		})
	})
	return showings
}

// findOCLabel locates the leaf div announcing the Open Caption format.
func findOCLabel(container *goquery.Selection) *goquery.Selection {
	var label *goquery.Selection
	container.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Find("div").Length() > 0 {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if classify.IsOCEligible([]classify.Attribute{{Name: text}}) {
			label = s
			return false
		}
		return true
	})
	return label
}

func hasOCLabel(s *goquery.Selection) bool {
	return findOCLabel(s) != nil
}

// regalDate renders the MM-DD-YYYY query parameter the site expects.
func regalDate(d normalize.Date) string {
	return fmt.Sprintf("%02d-%02d-%04d", int(d.Month), d.Day, d.Year)
}
