// Package guidance resolves the cut-guidance line for a marker role from a layered
// rule table: tier override, then lane nuance, then the default entry.
package guidance

import "github.com/ivlev/markercraft/internal/classify"

// Source names the table level a resolution came from.
type Source string

const (
	FromTier    Source = "tier_override"
	FromLane    Source = "lane_nuance"
	FromDefault Source = "default"
	None        Source = ""
)

// Resolution is the outcome of a lookup.
type Resolution struct {
	Text     string
	Role     string // role that produced Text
	Source   Source
	Fallback bool // Role is the table's fallback role, not the requested one
}

// Resolver is pure: it only reads the table it was built with.
type Resolver struct {
	table *Table
}

func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

// Table returns the table backing the resolver.
func (r *Resolver) Table() *Table {
	return r.table
}

// Canonical maps a raw role key through the alias table. An empty role becomes the
// fallback role.
func (r *Resolver) Canonical(role string) string {
	if a, ok := r.table.Aliases[role]; ok {
		role = a
	}
	if role == "" {
		return r.table.FallbackRole
	}
	return role
}

// Resolve returns the guidance text for role in ctx.
func (r *Resolver) Resolve(ctx classify.Context, role string) string {
	return r.Lookup(ctx, role).Text
}

// ResolveLabel derives the role from a marker label and resolves it.
func (r *Resolver) ResolveLabel(ctx classify.Context, label string) Resolution {
	return r.Lookup(ctx, RoleOf(label))
}

// Lookup resolves role and reports where the text came from. A role with no entry
// for ctx at any level is replaced by the fallback role, so the text is empty only
// for a table that failed Validate.
func (r *Resolver) Lookup(ctx classify.Context, role string) Resolution {
	canonical := r.Canonical(role)
	fb := r.table.FallbackRole
	if text, src := r.lookup(ctx, canonical); src != None {
		return Resolution{Text: text, Role: canonical, Source: src, Fallback: canonical == fb && role != fb}
	}
	text, src := r.lookup(ctx, fb)
	return Resolution{Text: text, Role: fb, Source: src, Fallback: canonical != fb}
}

func (r *Resolver) lookup(ctx classify.Context, role string) (string, Source) {
	if text, ok := r.table.TierOverride[ctx.Tier][role]; ok {
		return text, FromTier
	}
	if text, ok := r.table.LaneNuance[ctx.Lane][role]; ok {
		return text, FromLane
	}
	if text, ok := r.table.Default[role]; ok {
		return text, FromDefault
	}
	return "", None
}
