package templates

import "testing"

func TestDefaultSampleDataCoversCatalog(t *testing.T) {
	data := DefaultSampleData()
	for id := range Catalog {
		if _, ok := data[id]; !ok {
			t.Fatalf("cataloged placeholder %q has no default sample value", id)
		}
	}
}

func TestCategoriesReferenceCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, cat := range Categories {
		for _, key := range cat.Keys {
			if _, ok := Catalog[key]; !ok {
				t.Fatalf("category %q references unknown placeholder %q", cat.Name, key)
			}
			if seen[key] {
				t.Fatalf("placeholder %q appears in more than one category", key)
			}
			seen[key] = true
		}
	}
	if len(seen) != len(Catalog) {
		t.Fatalf("categories cover %d placeholders, catalog has %d", len(seen), len(Catalog))
	}
}

func TestLabelFor(t *testing.T) {
	if got := LabelFor("cash"); got != "Cash" {
		t.Fatalf("expected catalog label, got %q", got)
	}
	if got := LabelFor("nonexistent"); got != "nonexistent" {
		t.Fatalf("expected raw identifier fallback, got %q", got)
	}
}

func TestBuiltinTemplatesRenderCleanly(t *testing.T) {
	builtins, err := LoadBuiltinTemplates()
	if err != nil {
		t.Fatalf("LoadBuiltinTemplates: %v", err)
	}
	if len(builtins) < 3 {
		t.Fatalf("expected at least 3 builtin templates, got %d", len(builtins))
	}

	data := DefaultSampleData()
	for _, tmpl := range builtins {
		if tmpl.Name == "" {
			t.Fatal("builtin template missing name")
		}
		result := Render(tmpl.Content, data)
		if len(result.Errors) != 0 {
			t.Fatalf("builtin template %q renders with errors: %v", tmpl.Name, result.Errors)
		}
	}
}
