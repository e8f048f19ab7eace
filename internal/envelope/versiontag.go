package envelope

import "strings"

// VersionTag is the trailer key of the final body fragment that records
// which chronicle version wrote the commit. The literal is shared by
// encoder and decoder and must never change, or previously written history
// becomes unreadable.
const VersionTag = "X-Chronicle-Version"

// FormatVersionTag renders the version marker fragment.
func FormatVersionTag(version string) string {
	return VersionTag + ": " + version
}

// IsVersionTag reports whether the fragment is a version marker. The check
// is an exact literal prefix match, not a key scan, so unrelated fragments
// that merely contain the tag substring are not misclassified.
func IsVersionTag(fragment string) bool {
	return strings.HasPrefix(fragment, VersionTag+":")
}

// ExtractVersion returns the version string of a marker fragment, trimmed
// of surrounding whitespace. A marker that spans multiple lines does not
// parse cleanly and yields ""; version information is advisory, so this is
// treated the same as an absent marker rather than a failure.
func ExtractVersion(fragment string) string {
	if !IsVersionTag(fragment) {
		return ""
	}
	rest := fragment[len(VersionTag)+1:]
	if strings.ContainsRune(rest, '\n') {
		return ""
	}
	return strings.TrimSpace(rest)
}
