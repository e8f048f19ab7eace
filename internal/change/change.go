package change

// Kind identifies a change record variant. It doubles as the scope token in
// the fragment routing line, so the values are part of the wire format.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindUser    Kind = "user"
	KindOption  Kind = "option"
	KindTerm    Kind = "term"
	KindMeta    Kind = "meta"
	KindPlugin  Kind = "plugin"
	KindTheme   Kind = "theme"
	KindCore    Kind = "core"
	KindTool    Kind = "tool"
	KindRevert  Kind = "revert"
)

// Action verbs shared across variants. Variants accept free-form actions;
// these constants cover the tracked vocabulary.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionSwitch     = "switch"
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionInstall    = "install"
	ActionUndo       = "undo"
	ActionRollback   = "rollback"
)

// Record is a single structured change to one entity or subsystem.
// Records are plain values: once constructed (directly or by parsing) they
// are never mutated, and Description/Fragment are pure functions of their
// fields.
type Record interface {
	// Kind returns the variant category, the primary ordering key.
	Kind() Kind

	// Action returns the short verb tag ("create", "switch", ...), or ""
	// when the variant has no meaningful action. Used by ordering tie-breaks.
	Action() string

	// EntityID returns the identifier of the affected object (option name,
	// post ID, ...), or "" when the variant has no entity. Used by ordering
	// tie-breaks.
	EntityID() string

	// Description returns a one-line human-readable summary, e.g.
	// "Post 'Hello World' created".
	Description() string

	// Fragment returns the self-delimited text block for this record inside
	// a commit body. Fragments must never contain a blank line; the envelope
	// joins them with blank-line separators and splits on the same.
	Fragment() string
}

// IsEntity reports whether the kind represents a content entity change
// (as opposed to plugin/theme/core/tool/revert events). Entity changes are
// subject to the create-first ordering tie-break.
func (k Kind) IsEntity() bool {
	switch k {
	case KindPost, KindComment, KindUser, KindOption, KindTerm, KindMeta:
		return true
	}
	return false
}

// pastTense maps an action verb to its past-tense form for descriptions.
func pastTense(action string) string {
	switch action {
	case ActionCreate:
		return "created"
	case ActionUpdate:
		return "updated"
	case ActionDelete:
		return "deleted"
	case ActionSwitch:
		return "switched"
	case ActionActivate:
		return "activated"
	case ActionDeactivate:
		return "deactivated"
	case ActionInstall:
		return "installed"
	case "":
		return "changed"
	}
	// Unknown verbs pass through with a generic suffix ("trash" → "trashed").
	if last := action[len(action)-1]; last == 'e' {
		return action + "d"
	}
	return action + "ed"
}
