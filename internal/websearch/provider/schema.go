package provider

// ExtractionField names one string-valued field requested from a
// structured-content extraction.
type ExtractionField struct {
	Name        string
	Description string
}

// extractionFields is the fixed schema the crawl-extract provider asks the
// backend to fill for every candidate page.
var extractionFields = []ExtractionField{
	{Name: "full_informative_content", Description: "Full informative content from the web page"},
	{Name: "one_paragraph_summary", Description: "One paragraph summary of the web page"},
}

// buildExtractionSchema renders the field list as a JSON Schema object
// suitable for a structured-extraction request body.
func buildExtractionSchema(fields []ExtractionField) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	required := make([]string, 0, len(fields))

	for _, f := range fields {
		properties[f.Name] = map[string]interface{}{
			"type":        "string",
			"description": f.Description,
		}
		required = append(required, f.Name)
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
