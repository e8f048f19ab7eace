package changelog

import (
	"strings"
	"testing"
)

var sampleEntries = []Entry{
	{
		ID:        "01B",
		Subject:   "Core updated to version 6.4",
		CreatedAt: 1700000000, // 2023-11-14 UTC
		Details: []string{
			"Core updated to version 6.4",
			"Option 'db_version' updated",
		},
	},
	{
		ID:        "01A",
		Subject:   "Post 'Hello World' created",
		CreatedAt: 1699900000, // 2023-11-13 UTC
	},
}

func TestMarkdown_GroupsByDay(t *testing.T) {
	md := Markdown(sampleEntries)

	if !strings.HasPrefix(md, "# Changelog\n") {
		t.Errorf("missing heading:\n%s", md)
	}
	if !strings.Contains(md, "## 2023-11-14") {
		t.Errorf("missing day header for first entry:\n%s", md)
	}
	if !strings.Contains(md, "## 2023-11-13") {
		t.Errorf("missing day header for second entry:\n%s", md)
	}
	if strings.Index(md, "## 2023-11-14") > strings.Index(md, "## 2023-11-13") {
		t.Error("days not in input (newest-first) order")
	}
}

func TestMarkdown_DetailsOnlyForBundles(t *testing.T) {
	md := Markdown(sampleEntries)

	if !strings.Contains(md, "  - Option 'db_version' updated") {
		t.Errorf("multi-change commit missing detail bullets:\n%s", md)
	}
	if strings.Contains(md, "  - Post 'Hello World' created") {
		t.Errorf("single-change commit should not repeat its subject as a detail:\n%s", md)
	}
	if !strings.Contains(md, "- Post 'Hello World' created (`01A`)") {
		t.Errorf("missing commit bullet with id:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	html, err := HTML(Markdown(sampleEntries))
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(html, "<h1>Changelog</h1>") {
		t.Errorf("missing rendered heading:\n%s", html)
	}
	if !strings.Contains(html, "<li>") {
		t.Errorf("missing rendered list items:\n%s", html)
	}
}
