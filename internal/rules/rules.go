// Package rules resolves per-window tiling properties from the configured
// window rules.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Gaurav-Gosain/tilewm/internal/config"
	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
)

// Identity looks up the app id and title of a view.
type Identity interface {
	Identify(id string) (appID, title string, ok bool)
}

// Rule is a parsed window rule. Identifier and Title are case-insensitive
// glob patterns; an empty Title matches any title.
type Rule struct {
	Identifier    string
	Title         string
	FixedPosition bool
	Tile          tiling.Property
	TileDirection tiling.Property

	identifier *regexp.Regexp
	title      *regexp.Regexp
}

// Matches reports whether the rule applies to a window.
func (r Rule) Matches(appID, title string) bool {
	if r.identifier == nil || !r.identifier.MatchString(appID) {
		return false
	}
	return r.Title == "" || (r.title != nil && r.title.MatchString(title))
}

// compileGlob turns a glob into an anchored, case-insensitive expression.
// Unlike path.Match, * and ? also match slashes, which are common in both
// titles and reverse-DNS app ids. [...] classes are kept, with [!...]
// negating.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := i + 1
			for end < len(rs) && rs[end] != ']' {
				end++
			}
			if end == len(rs) {
				return nil, fmt.Errorf("unterminated character class")
			}
			class := string(rs[i+1 : end])
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(rs[i])))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Resolver answers property queries for the tiling engine.
type Resolver struct {
	rules []Rule
	ids   Identity
}

// New parses the configured rules. Patterns are checked up front so a bad
// glob fails at load time instead of never matching.
func New(cfg []config.WindowRule, ids Identity) (*Resolver, error) {
	parsed := make([]Rule, 0, len(cfg))
	for i, wr := range cfg {
		tile, err := wr.TileProperty()
		if err != nil {
			return nil, fmt.Errorf("window rule %d: %w", i, err)
		}
		dir, err := wr.DirectionProperty()
		if err != nil {
			return nil, fmt.Errorf("window rule %d: %w", i, err)
		}
		ident, err := compileGlob(wr.Identifier)
		if err != nil {
			return nil, fmt.Errorf("window rule %d: pattern %q: %w", i, wr.Identifier, err)
		}
		title, err := compileGlob(wr.Title)
		if err != nil {
			return nil, fmt.Errorf("window rule %d: pattern %q: %w", i, wr.Title, err)
		}
		parsed = append(parsed, Rule{
			Identifier:    wr.Identifier,
			Title:         wr.Title,
			FixedPosition: wr.FixedPosition,
			Tile:          tile,
			TileDirection: dir,
			identifier:    ident,
			title:         title,
		})
	}
	return &Resolver{rules: parsed, ids: ids}, nil
}

// Rules returns the parsed rules in configuration order.
func (r *Resolver) Rules() []Rule {
	return r.rules
}

// Property implements tiling.RuleResolver. Rules are applied in order and
// a later matching rule that sets the property overrides an earlier one.
func (r *Resolver) Property(id, key string) tiling.Property {
	if r.ids == nil {
		return tiling.PropUnset
	}
	appID, title, ok := r.ids.Identify(id)
	if !ok {
		return tiling.PropUnset
	}
	return r.lookup(appID, title, key)
}

func (r *Resolver) lookup(appID, title, key string) tiling.Property {
	result := tiling.PropUnset
	for _, rule := range r.rules {
		if !rule.Matches(appID, title) {
			continue
		}
		switch key {
		case tiling.KeyFixedPosition:
			if rule.FixedPosition {
				result = tiling.PropTrue
			}
		case tiling.KeyTile:
			if rule.Tile != tiling.PropUnset {
				result = rule.Tile
			}
		case tiling.KeyTileDirection:
			if rule.TileDirection != tiling.PropUnset {
				result = rule.TileDirection
			}
		}
	}
	return result
}

// Describe summarises the effect of the rules on a window, for listing.
func (r *Resolver) Describe(appID, title string) string {
	var parts []string
	if r.lookup(appID, title, tiling.KeyFixedPosition) == tiling.PropTrue {
		parts = append(parts, "fixed")
	}
	switch r.lookup(appID, title, tiling.KeyTile) {
	case tiling.PropTrue:
		parts = append(parts, "tile")
	case tiling.PropFalse:
		parts = append(parts, "no-tile")
	}
	switch r.lookup(appID, title, tiling.KeyTileDirection) {
	case tiling.PropTrue:
		parts = append(parts, "vertical")
	case tiling.PropFalse:
		parts = append(parts, "horizontal")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
