// Package dispatch holds the ordered route table of the web service.
//
// A rule matches a path exactly, by prefix or unconditionally. Exact rules
// win over prefix rules, prefix rules win over catch-all rules, and rules of
// the same kind are tried in declaration order. A rule may be restricted to
// the development or the production mode.
package dispatch

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Kind is the matching strategy of a rule.
type Kind int

const (
	// Exact matches one path.
	Exact Kind = iota
	// Prefix matches a path and everything below it.
	Prefix
	// CatchAll matches every path.
	CatchAll
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case CatchAll:
		return "catch-all"
	default:
		return "unknown"
	}
}

// Mode selects the rules active for a running service.
type Mode int

const (
	// Any marks a rule active in every mode.
	Any Mode = iota
	// Dev is the development mode, the frontend is served by its own dev server.
	Dev
	// Prod is the production mode, the frontend bundle is served by this service.
	Prod
)

func (m Mode) String() string {
	switch m {
	case Dev:
		return "DEV"
	case Prod:
		return "PROD"
	default:
		return "ANY"
	}
}

// Rule is one entry of the route table.
type Rule struct {
	Name string
	Kind Kind
	// Path is unused for CatchAll rules.
	Path string
	Mode Mode
	// Methods of an Exact rule, GET and HEAD when empty.
	Methods []string
	// Handlers serve Exact and CatchAll rules.
	Handlers []fiber.Handler
	// Routes registers the routes of a Prefix rule on a group scoped to Path.
	// Fiber matches Use middleware on the raw string prefix, so /api would
	// also catch /apix. Fallbacks register "/*" routes instead, and Use
	// middleware of the group checks Under.
	Routes func(router fiber.Router)
}

func (r Rule) activeIn(mode Mode) bool {
	return r.Mode == Any || r.Mode == mode
}

func (r Rule) matches(path string) bool {
	switch r.Kind {
	case Exact:
		return path == r.Path
	case Prefix:
		return Under(path, r.Path)
	case CatchAll:
		return true
	default:
		return false
	}
}

// Table is an ordered set of rules.
type Table struct {
	rules []Rule
}

// New returns a table holding rules in declaration order.
func New(rules ...Rule) *Table {
	t := &Table{}
	for _, r := range rules {
		t.Add(r)
	}

	return t
}

// Add appends r to the table.
func (t *Table) Add(r Rule) *Table {
	if r.Kind != CatchAll {
		r.Path = normalize(r.Path)
	}

	t.rules = append(t.rules, r)

	return t
}

// Rules returns the rules active in mode by priority.
func (t *Table) Rules(mode Mode) []Rule {
	active := make([]Rule, 0, len(t.rules))

	for _, r := range t.rules {
		if r.activeIn(mode) {
			active = append(active, r)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Kind < active[j].Kind
	})

	return active
}

// Resolve returns the rule serving path in mode.
func (t *Table) Resolve(path string, mode Mode) (Rule, bool) {
	path = normalize(path)

	for _, r := range t.Rules(mode) {
		if r.matches(path) {
			return r, true
		}
	}

	return Rule{}, false
}

// Mount registers the rules active in mode on app by priority. Fiber tries
// routes in registration order, so the table order is kept at runtime.
func (t *Table) Mount(app *fiber.App, mode Mode) {
	for _, r := range t.Rules(mode) {
		switch r.Kind {
		case Exact:
			methods := r.Methods
			if len(methods) == 0 {
				methods = []string{fiber.MethodGet, fiber.MethodHead}
			}

			for _, method := range methods {
				app.Add(method, r.Path, r.Handlers...)
			}
		case Prefix:
			if r.Routes != nil {
				r.Routes(app.Group(r.Path))
			}
		case CatchAll:
			args := make([]any, 0, len(r.Handlers))
			for _, h := range r.Handlers {
				args = append(args, h)
			}

			if len(args) > 0 {
				app.Use(args...)
			}
		}
	}
}

// Under reports whether path is prefix itself or lies below it. The match ends
// at a segment boundary: /Photos/a.jpg is under /Photos, /Photosgallery is not.
func Under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return path
}
