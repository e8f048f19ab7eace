package change

import "fmt"

// ParseFunc parses one body fragment into a populated record. Parsing is
// total for fragments the resolver routed here: a failure means the message
// was corrupted after encoding, and the error must be surfaced, never
// swallowed.
type ParseFunc func(fragment string) (Record, error)

// Resolver routes a body fragment to the variant that can parse it.
type Resolver interface {
	// Resolve returns the parse function for the fragment, or an error when
	// no registered variant recognizes the fragment's routing line.
	Resolve(fragment string) (ParseFunc, error)
}

// variantParser adapts a head+fields parser into a ParseFunc.
type variantParser func(parsedFragment) (Record, error)

// Registry resolves fragments by the scope token of their routing line.
type Registry struct {
	variants map[Kind]variantParser
}

// DefaultRegistry returns a Registry with all built-in variants registered.
func DefaultRegistry() *Registry {
	return &Registry{variants: map[Kind]variantParser{
		KindPost:    parsePost,
		KindComment: parseComment,
		KindUser:    parseUser,
		KindOption:  parseOption,
		KindTerm:    parseTerm,
		KindMeta:    parseMeta,
		KindPlugin:  parsePlugin,
		KindTheme:   parseTheme,
		KindCore:    parseCore,
		KindTool:    parseTool,
		KindRevert:  parseRevert,
	}}
}

// Resolve implements Resolver. Exactly one variant matches any well-formed
// fragment because scopes are unique keys.
func (r *Registry) Resolve(fragment string) (ParseFunc, error) {
	scope := routingScope(fragment)
	if scope == "" {
		return nil, fmt.Errorf("fragment has no routing line")
	}
	parser, ok := r.variants[Kind(scope)]
	if !ok {
		return nil, fmt.Errorf("no variant registered for scope %q", scope)
	}
	return func(fragment string) (Record, error) {
		parsed, err := parseFragment(fragment)
		if err != nil {
			return nil, err
		}
		return parser(parsed)
	}, nil
}
