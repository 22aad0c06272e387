package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JobPosting holds the schema.org JobPosting fields the extractor uses.
type JobPosting struct {
	Title          string
	Company        string
	Location       string
	Description    string
	EmploymentType string
	DatePosted     string
	Salary         string
	Remote         bool
}

// findJobPosting scans ld+json blocks for the first JobPosting object.
// Malformed blocks are skipped.
func findJobPosting(doc *goquery.Document) *JobPosting {
	var found *JobPosting
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &raw); err != nil {
			return true
		}
		if obj := findTyped(raw, "JobPosting"); obj != nil {
			found = toJobPosting(obj)
			return false
		}
		return true
	})
	return found
}

func findTyped(v any, typeName string) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj := findTyped(item, typeName); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if hasType(t["@type"], typeName) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findTyped(graph, typeName)
		}
	}
	return nil
}

func hasType(v any, typeName string) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, typeName)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, typeName) {
				return true
			}
		}
	}
	return false
}

func toJobPosting(obj map[string]any) *JobPosting {
	jp := &JobPosting{
		Title:          stringValue(obj["title"]),
		EmploymentType: joinValues(obj["employmentType"]),
		DatePosted:     stringValue(obj["datePosted"]),
	}

	switch org := obj["hiringOrganization"].(type) {
	case map[string]any:
		jp.Company = stringValue(org["name"])
	case string:
		jp.Company = org
	}

	jp.Location = locationValue(obj["jobLocation"])
	if strings.EqualFold(stringValue(obj["jobLocationType"]), "TELECOMMUTE") {
		jp.Remote = true
		if jp.Location == "" {
			jp.Location = "Remote"
		}
	}

	if desc := stringValue(obj["description"]); desc != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc)); err == nil {
			jp.Description = VisibleText(doc.Find("body"))
		}
	}

	jp.Salary = salaryValue(obj["baseSalary"])
	return jp
}

func locationValue(v any) string {
	switch t := v.(type) {
	case []any:
		var parts []string
		for _, item := range t {
			if loc := locationValue(item); loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		addr, ok := t["address"].(map[string]any)
		if !ok {
			return stringValue(t["address"])
		}
		var parts []string
		for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			switch c := addr[key].(type) {
			case string:
				if c != "" {
					parts = append(parts, c)
				}
			case map[string]any:
				if name := stringValue(c["name"]); name != "" {
					parts = append(parts, name)
				}
			}
		}
		return strings.Join(parts, ", ")
	case string:
		return t
	}
	return ""
}

func salaryValue(v any) string {
	sal, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	currency := stringValue(sal["currency"])
	value, ok := sal["value"].(map[string]any)
	if !ok {
		if n := numberValue(sal["value"]); n != "" {
			return strings.TrimSpace(currency + " " + n)
		}
		return ""
	}
	unit := strings.ToLower(stringValue(value["unitText"]))
	minV, maxV := numberValue(value["minValue"]), numberValue(value["maxValue"])
	var amount string
	switch {
	case minV != "" && maxV != "":
		amount = minV + "-" + maxV
	case minV != "":
		amount = minV
	case maxV != "":
		amount = maxV
	default:
		amount = numberValue(value["value"])
	}
	if amount == "" {
		return ""
	}
	out := strings.TrimSpace(currency + " " + amount)
	if unit != "" {
		out += " per " + unit
	}
	return out
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func numberValue(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.0f", n)
	case string:
		return strings.TrimSpace(n)
	}
	return ""
}

func joinValues(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
