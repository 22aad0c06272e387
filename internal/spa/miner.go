// Package spa mines job content that single-page apps ship inside the
// initial HTML: hydration state, inline JSON, API endpoints and stray text blocks.
package spa

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobscout/internal/extract"
)

// Strategy names the mining technique that produced a Candidate.
type Strategy string

const (
	// StrategyGlobalState parsed a known hydration variable
	StrategyGlobalState Strategy = "global_state"
	// StrategyInlineJSON parsed a job-like JSON object from an inline script
	StrategyInlineJSON Strategy = "inline_json"
	// StrategyAPIEndpoint found API addresses the page calls
	StrategyAPIEndpoint Strategy = "api_endpoint"
	// StrategyTextBlocks collected keyword-bearing DOM text
	StrategyTextBlocks Strategy = "text_blocks"
)

const (
	minBlockChars       = 50
	maxBlockChars       = 2000
	maxObjectsPerScript = 200
)

// Candidate is the loosely structured record a mining strategy recovered.
type Candidate struct {
	Strategy   Strategy `json:"strategy"`
	Source     string   `json:"source,omitempty"`
	Data       any      `json:"data,omitempty"`
	Endpoints  []string `json:"endpoints,omitempty"`
	TextBlocks []string `json:"text_blocks,omitempty"`
}

// globalStateNames are hydration conventions, checked in order.
var globalStateNames = []string{
	"__INITIAL_STATE__",
	"__NEXT_DATA__",
	"__NUXT__",
	"__APOLLO_STATE__",
	"__PRELOADED_STATE__",
	"__remixContext",
	"__data",
}

var (
	jobKeyPattern = regexp.MustCompile(`"(?:title|position|job[A-Za-z_]*)"\s*:`)

	endpointAssignPattern = regexp.MustCompile(`(?i)["']?(?:api[_-]?(?:base[_-]?)?(?:url|uri|host|endpoint)|base[_-]?url|graphql[_-]?(?:url|endpoint)|endpoint)["']?\s*[:=]\s*["']([^"'\s]+)["']`)
	endpointPathPattern   = regexp.MustCompile(`["']((?:https?://[^"'\s/]+)?/(?:api|graphql|v[0-9]+)(?:/[^"'\s]*)?)["']`)

	domainKeywords = []string{
		"responsibilit", "qualification", "requirement", "salary", "benefit",
		"experience", "skills", "compensation", "years of", "you will", "degree",
	}
)

// Mine runs the strategies in order and returns the first hit, or nil.
// Parse failures never escape; they advance to the next candidate.
func Mine(html, pageURL string) *Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var scripts []inlineScript
	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		id, _ := s.Attr("id")
		scripts = append(scripts, inlineScript{index: i, id: id, body: s.Text()})
	})

	if c := mineGlobalState(scripts); c != nil {
		return c
	}
	if c := mineInlineJSON(scripts); c != nil {
		return c
	}
	if c := mineEndpoints(scripts, pageURL); c != nil {
		return c
	}
	return mineTextBlocks(doc)
}

type inlineScript struct {
	index int
	id    string
	body  string
}

func mineGlobalState(scripts []inlineScript) *Candidate {
	for _, name := range globalStateNames {
		for _, sc := range scripts {
			if sc.id == name {
				if data, ok := parseJSON(strings.TrimSpace(sc.body)); ok {
					return &Candidate{Strategy: StrategyGlobalState, Source: name, Data: focusJob(data)}
				}
				continue
			}
			if data, ok := parseAssignment(sc.body, name); ok {
				return &Candidate{Strategy: StrategyGlobalState, Source: name, Data: focusJob(data)}
			}
		}
	}
	return nil
}

// parseAssignment finds "name = <json>" or "name = JSON.parse(<string>)" in body.
func parseAssignment(body, name string) (any, bool) {
	search := 0
	for {
		i := strings.Index(body[search:], name)
		if i < 0 {
			return nil, false
		}
		pos := search + i + len(name)
		search = pos

		j := skipSpace(body, pos)
		if j < len(body) && (body[j] == '"' || body[j] == '\'') {
			j = skipSpace(body, j+1)
			if j < len(body) && body[j] == ']' {
				j = skipSpace(body, j+1)
			}
		}
		if j >= len(body) || body[j] != '=' || (j+1 < len(body) && body[j+1] == '=') {
			continue
		}
		j = skipSpace(body, j+1)

		if strings.HasPrefix(body[j:], "JSON.parse(") {
			if data, ok := parseJSONParseCall(body, j+len("JSON.parse(")); ok {
				return data, true
			}
			continue
		}

		raw, ok := balancedObject(body, j)
		if !ok {
			continue
		}
		if data, ok := parseJSON(raw); ok {
			return data, true
		}
	}
}

func parseJSONParseCall(body string, start int) (any, bool) {
	start = skipSpace(body, start)
	if start >= len(body) {
		return nil, false
	}
	quote := body[start]
	if quote != '"' && quote != '\'' {
		return nil, false
	}
	end := start + 1
	for end < len(body) {
		if body[end] == '\\' {
			end += 2
			continue
		}
		if body[end] == quote {
			break
		}
		end++
	}
	if end >= len(body) {
		return nil, false
	}
	literal := body[start : end+1]
	if quote == '\'' {
		literal = `"` + strings.ReplaceAll(strings.ReplaceAll(literal[1:len(literal)-1], `\'`, `'`), `"`, `\"`) + `"`
	}
	unquoted, err := strconv.Unquote(literal)
	if err != nil {
		return nil, false
	}
	return parseJSON(unquoted)
}

func mineInlineJSON(scripts []inlineScript) *Candidate {
	for _, sc := range scripts {
		body := sc.body
		attempts := 0
		for i := 0; i < len(body) && attempts < maxObjectsPerScript; i++ {
			if body[i] != '{' {
				continue
			}
			raw, ok := balancedObject(body, i)
			if !ok {
				break
			}
			if !jobKeyPattern.MatchString(raw) {
				i += len(raw) - 1
				continue
			}
			attempts++
			data, ok := parseJSON(raw)
			if !ok {
				continue
			}
			return &Candidate{
				Strategy: StrategyInlineJSON,
				Source:   fmt.Sprintf("script[%d]", sc.index),
				Data:     focusJob(data),
			}
		}
	}
	return nil
}

func mineEndpoints(scripts []inlineScript, pageURL string) *Candidate {
	base, _ := url.Parse(pageURL)
	seen := map[string]bool{}
	var endpoints []string

	add := func(raw string) {
		ref, err := url.Parse(raw)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return
		}
		s := ref.String()
		if !seen[s] {
			seen[s] = true
			endpoints = append(endpoints, s)
		}
	}

	for _, sc := range scripts {
		for _, m := range endpointAssignPattern.FindAllStringSubmatch(sc.body, -1) {
			add(m[1])
		}
		for _, m := range endpointPathPattern.FindAllStringSubmatch(sc.body, -1) {
			add(m[1])
		}
	}

	if len(endpoints) == 0 {
		return nil
	}
	return &Candidate{Strategy: StrategyAPIEndpoint, Endpoints: endpoints}
}

func mineTextBlocks(doc *goquery.Document) *Candidate {
	var blocks []string
	seen := map[string]bool{}

	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "script", "style", "noscript", "template", "svg":
			return
		}
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) != "#text" {
				return
			}
			text := strings.Join(strings.Fields(c.Text()), " ")
			n := utf8.RuneCountInString(text)
			if n < minBlockChars || n > maxBlockChars || seen[text] {
				return
			}
			if hasDomainKeyword(text) {
				seen[text] = true
				blocks = append(blocks, text)
			}
		})
	})

	if len(blocks) == 0 {
		return nil
	}
	return &Candidate{Strategy: StrategyTextBlocks, TextBlocks: blocks}
}

func hasDomainKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func parseJSON(raw string) (any, bool) {
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false
	}
	return data, data != nil
}

// focusJob narrows a hydration payload to the first nested object that looks
// like a job posting. The payload is returned whole when none does.
func focusJob(data any) any {
	if job := findJobObject(data, 0); job != nil {
		return job
	}
	return data
}

var jobObjectKeys = []string{"title", "jobTitle", "description", "jobDescription", "location", "company", "companyName", "requirements", "qualifications"}

func findJobObject(v any, depth int) map[string]any {
	if depth > 12 {
		return nil
	}
	switch t := v.(type) {
	case map[string]any:
		hits := 0
		for _, k := range jobObjectKeys {
			if _, ok := t[k]; ok {
				hits++
			}
		}
		if hits >= 2 {
			return t
		}
		keys := sortedKeys(t)
		for _, k := range keys {
			if found := findJobObject(t[k], depth+1); found != nil {
				return found
			}
		}
	case []any:
		for _, item := range t {
			if found := findJobObject(item, depth+1); found != nil {
				return found
			}
		}
	}
	return nil
}

// Text flattens the candidate into readable "key: value" lines.
func (c *Candidate) Text() string {
	if c == nil {
		return ""
	}
	switch c.Strategy {
	case StrategyAPIEndpoint:
		lines := make([]string, len(c.Endpoints))
		for i, e := range c.Endpoints {
			lines[i] = "api endpoint: " + e
		}
		return strings.Join(lines, "\n")
	case StrategyTextBlocks:
		return strings.Join(c.TextBlocks, "\n\n")
	default:
		var lines []string
		flatten(&lines, "", c.Data, 0)
		return strings.Join(lines, "\n")
	}
}

func flatten(lines *[]string, prefix string, v any, depth int) {
	if depth > 12 {
		return
	}
	switch t := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(t) {
			if strings.HasPrefix(k, "@") || strings.HasPrefix(k, "__") {
				continue
			}
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(lines, key, t[k], depth+1)
		}
	case []any:
		var scalars []string
		for _, item := range t {
			switch item.(type) {
			case map[string]any, []any:
				flatten(lines, prefix, item, depth+1)
			default:
				if s := scalarText(item); s != "" {
					scalars = append(scalars, s)
				}
			}
		}
		if len(scalars) > 0 {
			*lines = append(*lines, fmt.Sprintf("%s: %s", prefix, strings.Join(scalars, ", ")))
		}
	default:
		if s := scalarText(t); s != "" {
			if prefix == "" {
				*lines = append(*lines, s)
			} else {
				*lines = append(*lines, fmt.Sprintf("%s: %s", prefix, s))
			}
		}
	}
}

func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if strings.Contains(s, "<") && strings.Contains(s, ">") {
			if text := extract.VisibleTextFromHTML(s); text != "" {
				return strings.ReplaceAll(text, "\n", " ")
			}
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
