package prompt

import "fmt"

// ExtractResearchTopic isolates the research subject of a query.
func ExtractResearchTopic(query string) string {
	return fmt.Sprintf(`Extract the precise medical research topic from the following query.
If the query mentions multiple topics, focus on the main one that requires in-depth research.

User query: "%s"

Response format: Only output the extracted research topic - nothing else.`, query)
}

// DeepResearch requests an expert-level research summary on a topic.
func DeepResearch(topic string) string {
	return fmt.Sprintf(`Generate a comprehensive, expert-level research analysis on %s.

Your research should include:
1. Current scientific understanding and consensus on the topic
2. Recent advancements or breakthroughs (within the last 1-3 years)
3. Evidence-based treatments or interventions
4. Ongoing clinical trials or promising areas of research
5. Expert perspectives and any controversies in the field
6. Statistical data and epidemiological information, if relevant
7. References to specific research papers or medical guidelines

Structure this as an accessible yet thorough summary that balances scientific accuracy with understandable language. Include specific details where appropriate (medication names, treatment approaches, scientific mechanisms).

Remember this is for informational purposes only and not medical advice. Note that research is continually evolving and the user should consult healthcare professionals for personalized guidance.`, topic)
}
