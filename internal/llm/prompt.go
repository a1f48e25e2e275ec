package llm

import (
	"strings"

	"github.com/alexanderramin/sprintwise/internal/domain"
	"github.com/alexanderramin/sprintwise/internal/prompts"
)

func buildPlanPrompt(d domain.ProjectDraft) string {
	tpl := prompts.Resolve(string(d.Type))

	var b strings.Builder
	b.WriteString(tpl.Plan)
	b.WriteString("\nProject name: ")
	b.WriteString(d.Name)
	b.WriteString("\nKeywords: ")
	b.WriteString(strings.Join(d.Keywords, ", "))
	b.WriteString("\nDescription: ")
	b.WriteString(d.Description)
	return b.String()
}

// buildTasksPrompt appends the serialized plan untouched; the model is left
// to find the first week in it.
func buildTasksPrompt(planText string, projectType domain.ProjectType) string {
	tpl := prompts.Resolve(string(projectType))
	return tpl.Tasks + "\nProject plan:\n" + planText
}

func buildOverviewPrompt(d domain.ProjectDraft) string {
	tpl := prompts.Resolve(string(d.Type))

	var b strings.Builder
	b.WriteString(tpl.Overview)
	b.WriteString("\nProject name: ")
	b.WriteString(d.Name)
	b.WriteString("\nProject type: ")
	b.WriteString(string(d.Type))
	b.WriteString("\nKeywords: ")
	b.WriteString(strings.Join(d.Keywords, ", "))
	b.WriteString("\nDescription: ")
	b.WriteString(d.Description)
	b.WriteString("\n\n")
	b.WriteString(prompts.BackgroundKnowledge())
	return b.String()
}
