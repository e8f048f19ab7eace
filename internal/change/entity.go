package change

import "fmt"

// Metadata field keys used by entity change fragments.
const (
	fieldPostTitle        = "Post-Title"
	fieldCommentPostTitle = "Comment-Post-Title"
	fieldTermName         = "Term-Name"
	fieldTermTaxonomy     = "Term-Taxonomy"
	fieldMetaParent       = "Meta-Parent"
	fieldMetaParentID     = "Meta-Parent-Id"
)

// PostChange records a create/update/delete of a post.
type PostChange struct {
	Act    string
	PostID string
	Title  string // optional display title
}

func (c PostChange) Kind() Kind       { return KindPost }
func (c PostChange) Action() string   { return c.Act }
func (c PostChange) EntityID() string { return c.PostID }

func (c PostChange) Description() string {
	if c.Title != "" {
		return fmt.Sprintf("Post '%s' %s", c.Title, pastTense(c.Act))
	}
	return fmt.Sprintf("Post %s %s", c.PostID, pastTense(c.Act))
}

func (c PostChange) Fragment() string {
	return buildFragment(fragmentHead{KindPost, c.Act, c.PostID},
		fieldPostTitle, c.Title)
}

func parsePost(f parsedFragment) (Record, error) {
	return PostChange{
		Act:    f.Head.Action,
		PostID: f.Head.EntityID,
		Title:  f.Fields[fieldPostTitle],
	}, nil
}

// CommentChange records a change to a comment, described via the title of
// the post it belongs to.
type CommentChange struct {
	Act       string
	CommentID string
	PostTitle string // optional
}

func (c CommentChange) Kind() Kind       { return KindComment }
func (c CommentChange) Action() string   { return c.Act }
func (c CommentChange) EntityID() string { return c.CommentID }

func (c CommentChange) Description() string {
	if c.PostTitle != "" {
		return fmt.Sprintf("Comment on '%s' %s", c.PostTitle, pastTense(c.Act))
	}
	return fmt.Sprintf("Comment %s %s", c.CommentID, pastTense(c.Act))
}

func (c CommentChange) Fragment() string {
	return buildFragment(fragmentHead{KindComment, c.Act, c.CommentID},
		fieldCommentPostTitle, c.PostTitle)
}

func parseComment(f parsedFragment) (Record, error) {
	return CommentChange{
		Act:       f.Head.Action,
		CommentID: f.Head.EntityID,
		PostTitle: f.Fields[fieldCommentPostTitle],
	}, nil
}

// UserChange records a change to a user account, identified by login name.
type UserChange struct {
	Act   string
	Login string
}

func (c UserChange) Kind() Kind       { return KindUser }
func (c UserChange) Action() string   { return c.Act }
func (c UserChange) EntityID() string { return c.Login }

func (c UserChange) Description() string {
	return fmt.Sprintf("User '%s' %s", c.Login, pastTense(c.Act))
}

func (c UserChange) Fragment() string {
	return buildFragment(fragmentHead{KindUser, c.Act, c.Login})
}

func parseUser(f parsedFragment) (Record, error) {
	return UserChange{Act: f.Head.Action, Login: f.Head.EntityID}, nil
}

// OptionChange records a change to a site option, identified by option name.
type OptionChange struct {
	Act  string
	Name string
}

func (c OptionChange) Kind() Kind       { return KindOption }
func (c OptionChange) Action() string   { return c.Act }
func (c OptionChange) EntityID() string { return c.Name }

func (c OptionChange) Description() string {
	return fmt.Sprintf("Option '%s' %s", c.Name, pastTense(c.Act))
}

func (c OptionChange) Fragment() string {
	return buildFragment(fragmentHead{KindOption, c.Act, c.Name})
}

func parseOption(f parsedFragment) (Record, error) {
	return OptionChange{Act: f.Head.Action, Name: f.Head.EntityID}, nil
}

// TermChange records a change to a taxonomy term (category, tag, ...).
type TermChange struct {
	Act      string
	TermID   string
	Name     string // optional display name
	Taxonomy string // optional, e.g. "category"
}

func (c TermChange) Kind() Kind       { return KindTerm }
func (c TermChange) Action() string   { return c.Act }
func (c TermChange) EntityID() string { return c.TermID }

func (c TermChange) Description() string {
	if c.Name != "" {
		return fmt.Sprintf("Term '%s' %s", c.Name, pastTense(c.Act))
	}
	return fmt.Sprintf("Term %s %s", c.TermID, pastTense(c.Act))
}

func (c TermChange) Fragment() string {
	return buildFragment(fragmentHead{KindTerm, c.Act, c.TermID},
		fieldTermName, c.Name,
		fieldTermTaxonomy, c.Taxonomy)
}

func parseTerm(f parsedFragment) (Record, error) {
	return TermChange{
		Act:      f.Head.Action,
		TermID:   f.Head.EntityID,
		Name:     f.Fields[fieldTermName],
		Taxonomy: f.Fields[fieldTermTaxonomy],
	}, nil
}

// MetaChange records a change to a meta field attached to a parent entity.
type MetaChange struct {
	Act         string
	Key         string
	ParentScope string // optional, e.g. "post" or "user"
	ParentID    string // optional
}

func (c MetaChange) Kind() Kind       { return KindMeta }
func (c MetaChange) Action() string   { return c.Act }
func (c MetaChange) EntityID() string { return c.Key }

func (c MetaChange) Description() string {
	if c.ParentScope != "" && c.ParentID != "" {
		return fmt.Sprintf("Meta '%s' %s for %s %s", c.Key, pastTense(c.Act), c.ParentScope, c.ParentID)
	}
	return fmt.Sprintf("Meta '%s' %s", c.Key, pastTense(c.Act))
}

func (c MetaChange) Fragment() string {
	return buildFragment(fragmentHead{KindMeta, c.Act, c.Key},
		fieldMetaParent, c.ParentScope,
		fieldMetaParentID, c.ParentID)
}

func parseMeta(f parsedFragment) (Record, error) {
	return MetaChange{
		Act:         f.Head.Action,
		Key:         f.Head.EntityID,
		ParentScope: f.Fields[fieldMetaParent],
		ParentID:    f.Fields[fieldMetaParentID],
	}, nil
}
