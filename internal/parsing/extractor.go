// Package parsing turns cleaned job posting and resume text into typed records
// using LLM extraction. Extraction never fails outright: any problem produces a
// degraded record that carries the original text.
package parsing

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobscout/internal/llm"
	"github.com/jonathan/jobscout/internal/prompts"
	"github.com/jonathan/jobscout/internal/schemas"
)

// DefaultAdvancedParseChars is the text length above which the advanced model tier is used.
const DefaultAdvancedParseChars = 15000

// Options configures an Extractor.
type Options struct {
	// AdvancedParseChars switches long inputs to llm.TierAdvanced.
	AdvancedParseChars int
}

// DefaultOptions returns the default extractor options.
func DefaultOptions() Options {
	return Options{AdvancedParseChars: DefaultAdvancedParseChars}
}

// Extractor extracts structured records from text through an llm.Completer.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	completer llm.Completer
	opts      Options
	logger    *zap.Logger
	newID     func() string
}

// NewExtractor creates an Extractor. A nil completer is allowed; every
// extraction then degrades with ErrNoCompleter.
func NewExtractor(completer llm.Completer, opts Options, logger *zap.Logger) *Extractor {
	if opts.AdvancedParseChars <= 0 {
		opts.AdvancedParseChars = DefaultAdvancedParseChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		completer: completer,
		opts:      opts,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// tierFor picks the model tier for an input of the given length.
func (e *Extractor) tierFor(text string) llm.ModelTier {
	if utf8.RuneCountInString(text) > e.opts.AdvancedParseChars {
		return llm.TierAdvanced
	}
	return llm.TierStandard
}

// extract runs one completion and decodes it into dst after schema validation.
func (e *Extractor) extract(ctx context.Context, promptKey, schemaName string, schema llm.ExtractionSchema, text string, dst any) error {
	if e.completer == nil {
		return ErrNoCompleter
	}

	systemPrompt, err := prompts.Get("parsing.json", promptKey)
	if err != nil {
		return err
	}
	prompt := llm.BuildExtractionPrompt(schema, text)

	response, err := e.completer.Complete(ctx, prompt, systemPrompt, llm.WithTier(e.tierFor(text)), llm.WithJSON())
	if err != nil {
		return &APICallError{Message: "failed to generate content from LLM", Cause: err}
	}

	response = llm.CleanJSONBlock(response)
	if !json.Valid([]byte(response)) {
		return &ParseError{Message: "response is not valid JSON"}
	}
	if err := schemas.Validate(schemaName, response); err != nil {
		return &ParseError{Message: "response does not match schema", Cause: err}
	}
	if err := json.Unmarshal([]byte(response), dst); err != nil {
		return &ParseError{Message: "failed to parse JSON response", Cause: err}
	}
	return nil
}
