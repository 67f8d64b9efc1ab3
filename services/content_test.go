package services

import "testing"

func TestExtractContentFields(t *testing.T) {
	raw := `{"title": "Steel Bottle 1L", "category": "Bottles", "vertical": "Home",
		"subCategory": "Drinkware", "superCategory": "Kitchen", "extra": "ignored"}`

	got := ExtractContentFields(raw)
	if got.Title == nil || *got.Title != "Steel Bottle 1L" {
		t.Errorf("Title: got %v, want Steel Bottle 1L", got.Title)
	}
	if got.SubCategory == nil || *got.SubCategory != "Drinkware" {
		t.Errorf("SubCategory: got %v, want Drinkware", got.SubCategory)
	}
}

func TestExtractContentFieldsPartial(t *testing.T) {
	got := ExtractContentFields(`{"title": "Only Title"}`)
	if got.Title == nil {
		t.Fatal("Title should be present")
	}
	if got.Category != nil || got.Vertical != nil || got.SubCategory != nil || got.SuperCategory != nil {
		t.Error("missing fields should map to nil")
	}
}

func TestExtractContentFieldsMalformed(t *testing.T) {
	tests := []string{"", "null", "not json", `["a", "b"]`, `{"title": 42}`}

	for _, raw := range tests {
		got := ExtractContentFields(raw)
		if got.Title != nil || got.Category != nil {
			t.Errorf("ExtractContentFields(%q) should yield all-nil fields", raw)
		}
	}
}
