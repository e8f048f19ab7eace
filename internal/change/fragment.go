package change

import (
	"fmt"
	"strings"
)

// routingKey is the key of every fragment's first line. The value is
// "<scope>/<action>" or "<scope>/<action>/<entityId>"; the entity id part
// may itself contain slashes.
const routingKey = "Change"

// fragmentHead is the parsed routing line of a fragment.
type fragmentHead struct {
	Scope    Kind
	Action   string
	EntityID string
}

// parsedFragment is a decoded fragment: routing head plus metadata fields.
type parsedFragment struct {
	Head   fragmentHead
	Fields map[string]string
}

// buildFragment renders a routing line plus ordered key:value metadata
// lines. Pairs with empty values are omitted. keyvals must have even length.
// Action, entity id and values are escaped so a fragment stays a block of
// single lines whatever the caller puts in them.
func buildFragment(head fragmentHead, keyvals ...string) string {
	var b strings.Builder
	b.WriteString(routingKey)
	b.WriteString(": ")
	b.WriteString(string(head.Scope))
	b.WriteByte('/')
	b.WriteString(escapeValue(head.Action))
	if head.EntityID != "" {
		b.WriteByte('/')
		b.WriteString(escapeValue(head.EntityID))
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i+1] == "" {
			continue
		}
		b.WriteByte('\n')
		b.WriteString(keyvals[i])
		b.WriteString(": ")
		b.WriteString(escapeValue(keyvals[i+1]))
	}
	return b.String()
}

// routingScope extracts the scope token from a fragment's first line without
// parsing the rest. Returns "" if the line is not a routing line.
func routingScope(fragment string) string {
	line := fragment
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	value, ok := strings.CutPrefix(line, routingKey+": ")
	if !ok {
		return ""
	}
	scope, _, _ := strings.Cut(value, "/")
	return scope
}

// parseFragment decodes a fragment into its routing head and metadata
// fields. Lines that are not "Key: value" shaped are rejected: a fragment
// reached this point through routing, so a malformed line means the message
// was corrupted or hand-edited.
func parseFragment(fragment string) (parsedFragment, error) {
	lines := strings.Split(fragment, "\n")

	value, ok := strings.CutPrefix(lines[0], routingKey+": ")
	if !ok {
		return parsedFragment{}, fmt.Errorf("fragment does not start with a %s line", routingKey)
	}

	parts := strings.SplitN(value, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return parsedFragment{}, fmt.Errorf("malformed routing value %q", value)
	}
	head := fragmentHead{Scope: Kind(parts[0]), Action: unescapeValue(parts[1])}
	if len(parts) == 3 {
		head.EntityID = unescapeValue(parts[2])
	}

	fields := make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		key, val, found := strings.Cut(line, ": ")
		if !found || key == "" {
			return parsedFragment{}, fmt.Errorf("malformed metadata line %q", line)
		}
		fields[key] = unescapeValue(val)
	}

	return parsedFragment{Head: head, Fields: fields}, nil
}

// escapeValue encodes newlines and backslashes in a field value so the
// value occupies a single line. Newlines would otherwise corrupt the
// fragment shape, and a blank-line pair would split it in two.
func escapeValue(s string) string {
	if !strings.ContainsAny(s, "\\\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// unescapeValue is the inverse of escapeValue. Unknown escape pairs pass
// through verbatim so hand-written fragments degrade gracefully.
func unescapeValue(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
