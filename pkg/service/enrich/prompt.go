package enrich

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
)

const defaultSummaryInstruction = "Write a concise, professional summary of the meeting. Highlight the decisions that were made and the flow of the discussion."

func (c *client) languageLine() string {
	if c.language == "" {
		return "Respond in the same language as the meeting notes.\n"
	}
	return fmt.Sprintf("Respond in %s.\n", c.language)
}

func (c *client) summarySystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an assistant that writes meeting minutes.\n\n")
	instruction := c.summaryInstruction
	if instruction == "" {
		instruction = defaultSummaryInstruction
	}
	sb.WriteString(instruction)
	sb.WriteString("\n")
	sb.WriteString("Format the summary as Markdown with headings and bullet points.\n")
	sb.WriteString(c.languageLine())

	return sb.String()
}

func (c *client) extractSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an assistant that extracts action items from meeting notes.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. List every concrete task that somebody agreed or was asked to do.\n")
	sb.WriteString("2. For each task, provide:\n")
	sb.WriteString("   - task: what needs to be done\n")
	fmt.Fprintf(&sb, "   - assignee: who is responsible, or %q when nobody was named\n", types.PlaceholderAssignee)
	sb.WriteString("   - dueDate: the deadline as YYYY-MM-DD, omitted when no deadline was mentioned\n")
	sb.WriteString("3. If there are no tasks, return an empty array.\n")
	sb.WriteString(c.languageLine())

	return sb.String()
}

func (c *client) tagsSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an assistant that categorizes meeting notes.\n\n")
	fmt.Fprintf(&sb, "Propose at most %d short topical tags for the meeting.\n", c.maxTags)
	sb.WriteString("Each tag should be one or two words.\n")
	sb.WriteString(c.languageLine())

	return sb.String()
}

func notesPrompt(notes string) string {
	return "## Meeting Notes:\n\n" + notes + "\n"
}

func actionItemsSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ActionItems",
		Description: "Action items extracted from the meeting notes",
		Type:        gollem.TypeArray,
		Items: &gollem.Parameter{
			Type: gollem.TypeObject,
			Properties: map[string]*gollem.Parameter{
				"task": {
					Type:        gollem.TypeString,
					Description: "What needs to be done",
				},
				"assignee": {
					Type:        gollem.TypeString,
					Description: "Who is responsible",
				},
				"dueDate": {
					Type:        gollem.TypeString,
					Description: "Deadline as YYYY-MM-DD",
				},
			},
			Required: []string{"task", "assignee"},
		},
	}
}

func tagsSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "Tags",
		Description: "Topical tags for the meeting",
		Type:        gollem.TypeArray,
		Items: &gollem.Parameter{
			Type: gollem.TypeString,
		},
	}
}
