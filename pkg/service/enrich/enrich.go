package enrich

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
)

// client implements Service interface
type client struct {
	llmClient          gollem.LLMClient
	language           string
	summaryInstruction string
	maxTags            int
}

// Option is a functional option for client configuration
type Option func(*client)

// WithLanguage fixes the output language. By default the model answers in
// the language of the notes.
func WithLanguage(language string) Option {
	return func(c *client) {
		c.language = language
	}
}

// WithSummaryInstruction replaces the default summary instruction
func WithSummaryInstruction(instruction string) Option {
	return func(c *client) {
		c.summaryInstruction = instruction
	}
}

// WithMaxTags sets the maximum number of suggested tags
func WithMaxTags(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.maxTags = n
		}
	}
}

// New creates a new enrichment service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		maxTags:   DefaultMaxTags,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func checkNotes(notes string) error {
	if strings.TrimSpace(notes) == "" {
		return goerr.Wrap(ErrEmptyNotes, "nothing to send")
	}
	return nil
}

func responseText(resp *gollem.Response) string {
	if resp == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(resp.Texts, ""))
}

func (c *client) generateJSON(ctx context.Context, systemPrompt string, schema *gollem.Parameter, notes string) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(notesPrompt(notes)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}

	return responseText(resp), nil
}

// Summarize generates a markdown summary of the notes
func (c *client) Summarize(ctx context.Context, notes string) (string, error) {
	if err := checkNotes(notes); err != nil {
		return "", err
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(c.summarySystemPrompt()),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(notesPrompt(notes)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate summary")
	}

	summary := responseText(resp)
	if summary == "" {
		return FallbackSummary, nil
	}
	return summary, nil
}

// ExtractActionItems asks the model for a structured list of tasks
func (c *client) ExtractActionItems(ctx context.Context, notes string) ([]ExtractedItem, error) {
	if err := checkNotes(notes); err != nil {
		return nil, err
	}

	text, err := c.generateJSON(ctx, c.extractSystemPrompt(), actionItemsSchema(), notes)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []ExtractedItem{}, nil
	}

	docs, err := decodeActionItems(text)
	if err != nil {
		return nil, err
	}

	items := make([]ExtractedItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, ExtractedItem{
			Task:     strings.TrimSpace(d.Task),
			Assignee: strings.TrimSpace(d.Assignee),
			DueDate:  strings.TrimSpace(d.DueDate),
		})
	}
	return items, nil
}

// SuggestTags asks the model for topical tags. Model and parse failures
// are logged and yield an empty slice.
func (c *client) SuggestTags(ctx context.Context, notes string) ([]string, error) {
	if err := checkNotes(notes); err != nil {
		return nil, err
	}

	text, err := c.generateJSON(ctx, c.tagsSystemPrompt(), tagsSchema(), notes)
	if err != nil {
		logging.From(ctx).Warn("failed to suggest tags", slog.Any("error", err))
		return []string{}, nil
	}
	if text == "" {
		return []string{}, nil
	}

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		logging.From(ctx).Warn("tag response is not a string array",
			slog.String("response", text),
			slog.Any("error", err),
		)
		return []string{}, nil
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == c.maxTags {
			break
		}
	}
	return tags, nil
}

// decodeActionItems accepts only a JSON array whose entries are all task
// objects. null, either as the payload or as an entry, is malformed.
func decodeActionItems(text string) ([]extractedItemDoc, error) {
	if !strings.HasPrefix(strings.TrimSpace(text), "[") {
		return nil, goerr.Wrap(ErrMalformedResponse, "action items are not an array",
			goerr.V(ResponseKey, text))
	}

	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "action items are not an array of task objects",
			goerr.V(ResponseKey, text), goerr.V("cause", err.Error()))
	}

	docs := make([]extractedItemDoc, 0, len(raws))
	for i, raw := range raws {
		if !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
			return nil, goerr.Wrap(ErrMalformedResponse, "action item is not an object",
				goerr.V(ResponseKey, text), goerr.V("index", i))
		}
		var d extractedItemDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, goerr.Wrap(ErrMalformedResponse, "action item has invalid fields",
				goerr.V(ResponseKey, text), goerr.V("index", i), goerr.V("cause", err.Error()))
		}
		docs = append(docs, d)
	}
	return docs, nil
}
