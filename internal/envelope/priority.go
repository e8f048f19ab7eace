package envelope

import "github.com/hpungsan/chronicle/internal/change"

// PriorityTable is the canonical precedence of change categories. Lower
// index sorts earlier. Categories absent from the table sort after all
// listed ones, stably among themselves.
type PriorityTable []change.Kind

// DefaultPriorityTable orders bundled changes for display: infrastructure
// events (core update, tool self-change, revert) outrank content changes,
// and structural content outranks options and meta noise.
var DefaultPriorityTable = PriorityTable{
	change.KindCore,
	change.KindTool,
	change.KindRevert,
	change.KindPost,
	change.KindComment,
	change.KindUser,
	change.KindTerm,
	change.KindPlugin,
	change.KindTheme,
	change.KindOption,
	change.KindMeta,
}

// Rank returns the position of the kind in the table, or len(table) for
// kinds not listed.
func (t PriorityTable) Rank(k change.Kind) int {
	for i, kind := range t {
		if kind == k {
			return i
		}
	}
	return len(t)
}

// less compares two records for the stable ranking sort. Primary key is the
// table rank; the tie-break rules below apply only within equal primary
// rank and never across categories:
//
//  1. Among theme changes, a "switch" sorts first.
//  2. Among option changes, the "WPLANG" option sorts strictly last.
//  3. Among general entity changes (excluding options, which rule 2
//     covers), a "create" sorts first.
//
// Everything else stays tied, so the stable sort preserves insertion order.
func (t PriorityTable) less(a, b change.Record) bool {
	ra, rb := t.Rank(a.Kind()), t.Rank(b.Kind())
	if ra != rb {
		return ra < rb
	}

	// Rule 1: theme switch wins.
	if a.Kind() == change.KindTheme && b.Kind() == change.KindTheme {
		aSwitch := a.Action() == change.ActionSwitch
		bSwitch := b.Action() == change.ActionSwitch
		if aSwitch != bSwitch {
			return aSwitch
		}
		return false
	}

	// Rule 2: the language option sorts after every other option change.
	if a.Kind() == change.KindOption && b.Kind() == change.KindOption {
		aLang := a.EntityID() == languageOption
		bLang := b.EntityID() == languageOption
		if aLang != bLang {
			return bLang
		}
		return false
	}

	// Rule 3: creates lead among entity changes.
	if a.Kind().IsEntity() && b.Kind().IsEntity() {
		aCreate := a.Action() == change.ActionCreate
		bCreate := b.Action() == change.ActionCreate
		if aCreate != bCreate {
			return aCreate
		}
	}

	return false
}

// languageOption is the option name demoted by rule 2: a locale change is
// the least interesting thing a bundle can contain.
const languageOption = "WPLANG"
