package prompt

// GreetingFirstTime is used when the conversation has no prior turns.
const GreetingFirstTime = `Generate a comprehensive introduction for a medical advice chatbot named SonarCare.
The introduction should:
- Warmly welcome the user
- Explain that SonarCare provides general health information, not medical diagnosis
- Emphasize the importance of consulting healthcare professionals for medical advice
- Mention it can help with general symptom information, treatment options, and finding appropriate medical departments
- Invite the user to ask health-related questions
- Be friendly and reassuring

Response format: Just the introduction text, no additional explanations.`

// GreetingReturning is used when the user greets mid-conversation.
const GreetingReturning = `Generate a friendly, empathetic greeting for a medical advice chatbot.
The greeting should:
- Be warm and welcoming
- Briefly introduce the chatbot as SonarCare, a medical assistant
- Mention that it provides general health information, not medical diagnosis
- Encourage the user to ask health-related questions
- Be concise (2-3 sentences maximum)

Response format: Just the greeting text, no additional explanations.`

// Greeting picks the variant for the conversation's history length. A
// history of one message or fewer counts as a first contact.
func Greeting(historyLen int) (text string, firstTime bool) {
	if historyLen <= 1 {
		return GreetingFirstTime, true
	}
	return GreetingReturning, false
}
