package prompt

import "fmt"

// ExtractControversialTopic isolates the medical topic of a query,
// flagging when it may have differing medical perspectives.
func ExtractControversialTopic(query string) string {
	return fmt.Sprintf(`Extract the primary medical topic from the following query, particularly noting if it's a topic that might be controversial or have differing medical perspectives.

User query: "%s"

Response format: Only output the extracted medical topic - nothing else.`, query)
}

// BalancedOverview requests a neutral, evidence-based treatment of a
// possibly controversial topic.
func BalancedOverview(topic string) string {
	return fmt.Sprintf(`Provide a balanced, evidence-based overview of %s.

Your analysis should:
1. Present factual information about the topic from a neutral perspective
2. Include multiple perspectives from mainstream medical science
3. Clearly distinguish between scientific consensus and areas of ongoing debate
4. Present relevant historical context and efficacy data where available
5. Acknowledge limitations in current research
6. Avoid taking a stance on controversial aspects, instead presenting the evidence from all sides
7. Include relevant statistics and cite known outcomes where appropriate

Present the information in a straightforward, neutral tone that respects the user's intelligence and desire for unbiased information. Avoid euphemisms or overly cautious language that obscures facts, while maintaining appropriate medical context.

Conclude with a balanced summary of the current state of evidence.`, topic)
}
