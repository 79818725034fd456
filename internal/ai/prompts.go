package ai

import (
	"bytes"
	"fmt"
	"text/template"
)

// PromptData holds the parameters for template rendering
type PromptData struct {
	Repositories     string
	Assignees        string
	UserRequest      string
	CurrentDraft     string
	ModificationText string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	draftInstructionsEN = `# Role
  You turn a free-text problem report into a structured GitHub issue draft.

  # Golden Rules (Constraints)
  1. **No Hallucinations:** Only use facts present in the user's text. Never invent versions, stack traces, steps or people.
  2. **Repository:** Pick repo_url ONLY from the repository list. Choose the entry whose description best matches the problem.
  3. **Assignee:** Pick assignee_username ONLY from the assignee list, or null when nobody is clearly responsible.
  4. **Title:** Short and imperative, under 80 characters.
  5. **Body:** Markdown with the sections "Description", "Steps to reproduce" and "Expected behavior" when the text supports them. Omit a section instead of guessing its content.
  6. **Format:** Raw JSON only, matching the schema. No markdown fences, no commentary.`

	draftInstructionsES = `# Rol
  Convertís un reporte de problema en texto libre en un borrador estructurado de issue de GitHub.

  # Reglas de Oro (Restricciones)
  1. **Sin alucinaciones:** Usá solo hechos presentes en el texto del usuario. Nunca inventes versiones, trazas, pasos ni personas.
  2. **Repositorio:** Elegí repo_url SOLO de la lista de repositorios, la entrada cuya descripción mejor coincida con el problema.
  3. **Asignado:** Elegí assignee_username SOLO de la lista de asignables, o null si nadie es claramente responsable.
  4. **Título:** Corto e imperativo, menos de 80 caracteres.
  5. **Cuerpo:** Markdown con las secciones "Descripción", "Pasos para reproducir" y "Comportamiento esperado" cuando el texto las respalde. Omití una sección antes que inventar su contenido.
  6. **Formato:** Solo JSON crudo que respete el esquema. Sin bloques markdown ni comentarios.`

	refineInstructionsEN = `# Role
  You apply a requested modification to an existing GitHub issue draft.

  # Golden Rules (Constraints)
  1. **Minimal change:** Change only what the modification asks for. Copy every other field exactly as it appears in the current draft.
  2. **No Hallucinations:** Do not add facts absent from the original request, the current draft or the modification.
  3. **Reference lists:** repo_url and assignee_username must still come from the provided lists (assignee may be null).
  4. **Format:** Return the complete updated draft as raw JSON matching the schema. No markdown fences, no commentary.`

	refineInstructionsES = `# Rol
  Aplicás una modificación pedida sobre un borrador de issue de GitHub existente.

  # Reglas de Oro (Restricciones)
  1. **Cambio mínimo:** Cambiá solo lo que pide la modificación. Copiá el resto de los campos exactamente como están en el borrador actual.
  2. **Sin alucinaciones:** No agregues hechos ausentes del pedido original, el borrador actual o la modificación.
  3. **Listas de referencia:** repo_url y assignee_username deben seguir saliendo de las listas provistas (el asignado puede ser null).
  4. **Formato:** Devolvé el borrador completo actualizado como JSON crudo que respete el esquema. Sin bloques markdown ni comentarios.`
)

const (
	draftPromptTemplate = `# Available repositories
{{.Repositories}}

# Available assignees
{{.Assignees}}

# User request
{{.UserRequest}}`

	refinePromptTemplate = `# Available repositories
{{.Repositories}}

# Available assignees
{{.Assignees}}

# Original request
{{.UserRequest}}

# Current draft (JSON)
{{.CurrentDraft}}

# Requested modification
{{.ModificationText}}`
)

// GetDraftInstructions returns the generation instructions for the language.
func GetDraftInstructions(lang string) string {
	switch lang {
	case "es":
		return draftInstructionsES
	default:
		return draftInstructionsEN
	}
}

// GetRefineInstructions returns the refinement instructions for the language.
func GetRefineInstructions(lang string) string {
	switch lang {
	case "es":
		return refineInstructionsES
	default:
		return refineInstructionsEN
	}
}

// BuildDraftPrompt renders the user message for a first draft.
func BuildDraftPrompt(data PromptData) (string, error) {
	return RenderPrompt("draftPrompt", draftPromptTemplate, withPlaceholders(data))
}

// BuildRefinePrompt renders the user message for a refinement.
func BuildRefinePrompt(data PromptData) (string, error) {
	return RenderPrompt("refinePrompt", refinePromptTemplate, withPlaceholders(data))
}

func withPlaceholders(data PromptData) PromptData {
	if data.Repositories == "" {
		data.Repositories = "(none)"
	}
	if data.Assignees == "" {
		data.Assignees = "(none)"
	}
	return data
}
