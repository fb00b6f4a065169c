package services

// SystemInstruction is the fixed instruction sent with every generation
// request. The model must ground its answer in the supplied context and
// admit when the context does not cover the question.
const SystemInstruction = `You are a news assistant. Answer the user's question using ONLY the provided context. If the context does not contain the answer, say explicitly that you don't know based on the available articles. Keep answers concise and cite article titles when relevant.`

// Canned answers for the no-data terminal states. Generation is skipped
// entirely for these; sources stay empty.
const (
	msgNoDocuments   = "I don't have any articles ingested yet. Try running an ingest first."
	msgNoMatch       = "I couldn't find any relevant information about that in the ingested articles."
	msgEmptyQuery    = "I couldn't understand the question. Could you rephrase it?"
	msgInternalFault = "Sorry, something went wrong while answering. Please try again."
)
