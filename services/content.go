package services

import "listing-analytics/models"

// ExtractContentFields pulls the fixed field subset (title and the category
// hierarchy) out of one page_content document. A payload that fails to decode
// or is not an object yields all-nil fields; individual missing fields map to
// nil, never to an error.
func ExtractContentFields(raw string) models.ContentFields {
	obj, ok := DecodeObject(raw)
	if !ok {
		return models.ContentFields{}
	}

	return models.ContentFields{
		Title:         stringField(obj, "title"),
		Category:      stringField(obj, "category"),
		Vertical:      stringField(obj, "vertical"),
		SubCategory:   stringField(obj, "subCategory"),
		SuperCategory: stringField(obj, "superCategory"),
	}
}

func stringField(obj map[string]any, key string) *string {
	if v, ok := obj[key].(string); ok {
		return &v
	}
	return nil
}
