package change

import "fmt"

// Metadata field keys used by system change fragments.
const (
	fieldPluginName  = "Plugin-Name"
	fieldThemeName   = "Theme-Name"
	fieldCoreVersion = "Core-Version"
	fieldToolVersion = "Tool-Version"
)

// PluginChange records an install/activate/deactivate/update/delete of a
// plugin, identified by slug.
type PluginChange struct {
	Act  string
	Slug string
	Name string // optional display name
}

func (c PluginChange) Kind() Kind       { return KindPlugin }
func (c PluginChange) Action() string   { return c.Act }
func (c PluginChange) EntityID() string { return c.Slug }

func (c PluginChange) Description() string {
	name := c.Name
	if name == "" {
		name = c.Slug
	}
	return fmt.Sprintf("Plugin '%s' %s", name, pastTense(c.Act))
}

func (c PluginChange) Fragment() string {
	return buildFragment(fragmentHead{KindPlugin, c.Act, c.Slug},
		fieldPluginName, c.Name)
}

func parsePlugin(f parsedFragment) (Record, error) {
	return PluginChange{
		Act:  f.Head.Action,
		Slug: f.Head.EntityID,
		Name: f.Fields[fieldPluginName],
	}, nil
}

// ThemeChange records a theme switch, update, install or delete.
type ThemeChange struct {
	Act  string
	Slug string
	Name string // optional display name
}

func (c ThemeChange) Kind() Kind       { return KindTheme }
func (c ThemeChange) Action() string   { return c.Act }
func (c ThemeChange) EntityID() string { return c.Slug }

func (c ThemeChange) Description() string {
	name := c.Name
	if name == "" {
		name = c.Slug
	}
	if c.Act == ActionSwitch {
		return fmt.Sprintf("Theme switched to '%s'", name)
	}
	return fmt.Sprintf("Theme '%s' %s", name, pastTense(c.Act))
}

func (c ThemeChange) Fragment() string {
	return buildFragment(fragmentHead{KindTheme, c.Act, c.Slug},
		fieldThemeName, c.Name)
}

func parseTheme(f parsedFragment) (Record, error) {
	return ThemeChange{
		Act:  f.Head.Action,
		Slug: f.Head.EntityID,
		Name: f.Fields[fieldThemeName],
	}, nil
}

// CoreChange records an update or install of the host CMS core.
type CoreChange struct {
	Act     string
	Version string
}

func (c CoreChange) Kind() Kind       { return KindCore }
func (c CoreChange) Action() string   { return c.Act }
func (c CoreChange) EntityID() string { return "" }

func (c CoreChange) Description() string {
	if c.Version != "" {
		return fmt.Sprintf("Core %s to version %s", pastTense(c.Act), c.Version)
	}
	return fmt.Sprintf("Core %s", pastTense(c.Act))
}

func (c CoreChange) Fragment() string {
	return buildFragment(fragmentHead{Scope: KindCore, Action: c.Act},
		fieldCoreVersion, c.Version)
}

func parseCore(f parsedFragment) (Record, error) {
	return CoreChange{
		Act:     f.Head.Action,
		Version: f.Fields[fieldCoreVersion],
	}, nil
}

// ToolChange records a change to chronicle itself (activation, upgrade).
type ToolChange struct {
	Act     string
	Version string
}

func (c ToolChange) Kind() Kind       { return KindTool }
func (c ToolChange) Action() string   { return c.Act }
func (c ToolChange) EntityID() string { return "" }

func (c ToolChange) Description() string {
	if c.Act == ActionUpdate && c.Version != "" {
		return fmt.Sprintf("Chronicle updated to version %s", c.Version)
	}
	return fmt.Sprintf("Chronicle %s", pastTense(c.Act))
}

func (c ToolChange) Fragment() string {
	return buildFragment(fragmentHead{Scope: KindTool, Action: c.Act},
		fieldToolVersion, c.Version)
}

func parseTool(f parsedFragment) (Record, error) {
	return ToolChange{
		Act:     f.Head.Action,
		Version: f.Fields[fieldToolVersion],
	}, nil
}

// RevertChange records an undo of a single commit or a rollback to one.
type RevertChange struct {
	Act      string // "undo" or "rollback"
	CommitID string
}

func (c RevertChange) Kind() Kind       { return KindRevert }
func (c RevertChange) Action() string   { return c.Act }
func (c RevertChange) EntityID() string { return c.CommitID }

func (c RevertChange) Description() string {
	if c.Act == ActionRollback {
		return fmt.Sprintf("Rolled back to commit %s", c.CommitID)
	}
	return fmt.Sprintf("Reverted changes from commit %s", c.CommitID)
}

func (c RevertChange) Fragment() string {
	return buildFragment(fragmentHead{KindRevert, c.Act, c.CommitID})
}

func parseRevert(f parsedFragment) (Record, error) {
	return RevertChange{Act: f.Head.Action, CommitID: f.Head.EntityID}, nil
}
