package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence without newline", "```{\"a\": 1}```", `{"a": 1}`},
		{"preamble", "Here is the JSON:\n{\"company\": \"Acme\"}", `{"company": "Acme"}`},
		{"trailing prose", "{\"key\": \"value\"}\n\nLet me know!", `{"key": "value"}`},
		{"array with preamble", "Items:\n[\"a\", \"b\"]", `["a", "b"]`},
		{"escaped quotes", `Result: {"m": "He said \"hi\" {x}"}`, `{"m": "He said \"hi\" {x}"}`},
		{"no json", "  nothing here  ", "nothing here"},
		{"unbalanced", `{"a": `, `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"outer": {"inner": "v"}}`, extractJSONObject(`{"outer": {"inner": "v"}} tail`))
	assert.Equal(t, `{"t": "Hello {name}!"}`, extractJSONObject(`{"t": "Hello {name}!"}`))
	assert.Equal(t, "", extractJSONObject(""))
	assert.Equal(t, "", extractJSONObject("not json"))
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[[1, 2], [3, 4]]`, extractJSONArray(`[[1, 2], [3, 4]] extra`))
	assert.Equal(t, `[{"id": 1}]`, extractJSONArray(`[{"id": 1}]`))
	assert.Equal(t, "", extractJSONArray("not array"))
}

func TestBuildExtractionPrompt(t *testing.T) {
	schema := ExtractionSchema{
		Name: "Test",
		Fields: []SchemaField{
			{Name: "title", Type: `"string"`, Description: "job title", Required: true},
			{Name: "skills", Type: `["string"]`},
		},
	}
	prompt := BuildExtractionPrompt(schema, "Senior Go Engineer")

	assert.Contains(t, prompt, `"title": "string" (required) // job title,`)
	assert.Contains(t, prompt, `"skills": ["string"]`)
	assert.Contains(t, prompt, "\"\"\"\nSenior Go Engineer\n\"\"\"")
}
