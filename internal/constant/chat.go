package constant

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// User-visible text is restricted to this fixed set. Raw error strings
// never reach the client; they go to logs and event metadata only.
const (
	MsgRejection = "I'm a medical advice chatbot specialized in healthcare and medical topics. " +
		"I can only help you with health-related questions, symptoms, treatments, medical procedures, " +
		"finding doctors or hospitals, and other medical concerns.\n\n" +
		"Please ask me something related to health or medicine, and I'll be happy to help you!"

	MsgGenerationError = "I'm sorry, I encountered an error while processing your request. Please try again."

	MsgTechnicalDifficulty = "I'm experiencing technical difficulties. Please try again in a moment."
)

// Status lines emitted while a query is in flight.
const (
	StatusProcessing = "Processing your question..."
	StatusGenerating = "Generating response..."
)
