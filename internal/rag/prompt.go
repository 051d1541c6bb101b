package rag

import "fmt"

// BuildRAGPrompt asks for an answer drawn only from the policy context.
func BuildRAGPrompt(context, question string) string {
	return fmt.Sprintf(`You are an HR policy assistant.

Answer the question strictly using the context below.
If the answer is not present in the context, say %q

Context:
%s

Question:
%s

Answer:
`, RefusalPhrase, context, question)
}

// BuildGeneralPrompt asks for a general answer without policy context.
func BuildGeneralPrompt(question string) string {
	return fmt.Sprintf(`You are a helpful, professional AI assistant.

Answer the user's question clearly and concisely.

Question:
%s

Answer:
`, question)
}
