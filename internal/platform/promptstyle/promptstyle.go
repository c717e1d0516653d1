package promptstyle

import "strings"

const marker = "LECTURA_PROMPT_STYLE_V1"

// ApplySystem prepends a concise guidance block to system prompts. It is kept
// minimal so it improves output discipline without changing task semantics.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are a careful study assistant for Lectura.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nUse provided inputs as grounding; do not invent facts.")
	b.WriteString("\nIf information is missing, say so or use conservative defaults.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nBe concise and structured when helpful.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
