package orchestrator

import (
	"fmt"
	"strings"
)

// upstreamPreamble introduces context copied in from connected nodes.
const upstreamPreamble = "\n\nPrevious responses from connected council members:"

// upstreamEntry is one connected producer's contribution to a node's
// context block.
type upstreamEntry struct {
	Display string
	Content string
}

// upstreamContext assembles the context appended to a node's user message
// from its incoming edges. Roots get an empty string.
func upstreamContext(entries []upstreamEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(upstreamPreamble)
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%s's response:\n%s\n", e.Display, e.Content)
	}
	return b.String()
}

// labeledResponse is one anonymized Stage 1 answer as shown to evaluators.
type labeledResponse struct {
	Label   string
	Content string
}

// rankingPrompt builds the Stage 2 evaluation prompt over the anonymized
// corpus, demanding a terminal FINAL RANKING block the parser can read.
func rankingPrompt(query string, responses []labeledResponse) string {
	sections := make([]string, len(responses))
	for i, r := range responses {
		sections[i] = fmt.Sprintf("Response %s:\n%s", r.Label, r.Content)
	}
	return fmt.Sprintf("Evaluate these responses to: \"%s\"\n\n%s\n\nEvaluate each response, then provide your ranking.\n\nEnd with:\nFINAL RANKING:\n1. Response X\n2. Response Y\n...",
		query, strings.Join(sections, "\n\n"))
}

// synthesisEntry is one Stage 1 answer as presented to the chairman.
type synthesisEntry struct {
	Display string
	Model   string
	Content string
}

// chairmanInput builds the chairman's user message: the original question
// followed by the responses flowing into the chairman node.
func chairmanInput(query string, entries []synthesisEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %s\n\nResponses from council members:\n", query)
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%s (%s):\n%s\n", e.Display, e.Model, e.Content)
	}
	b.WriteString("\n\nProvide your synthesis:")
	return b.String()
}

// titlePrompt asks for a short conversation title for the history listing.
func titlePrompt(query string) string {
	return fmt.Sprintf("Generate a very short title (3-5 words maximum) that summarizes the following question.\nThe title should be concise and descriptive. Do not use quotes or punctuation in the title.\n\nQuestion: %s\n\nTitle:", query)
}

// responseLabel anonymizes the i-th response as A, B, C, ...
func responseLabel(i int) string {
	return string(rune('A' + i))
}

// clip bounds text kept in log rows and streamed reasoning excerpts to
// the first n runes.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
