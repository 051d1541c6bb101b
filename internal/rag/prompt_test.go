package rag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hr-rag-bot/internal/rag"
)

func TestBuildRAGPrompt(t *testing.T) {
	context := "Employees receive 20 days of annual leave.\nLeave requests need approval."
	prompt := rag.BuildRAGPrompt(context, "What is the leave policy?")

	assert.Contains(t, prompt, "You are an HR policy assistant.")
	assert.Contains(t, prompt, "strictly using the context below")
	assert.Contains(t, prompt, `say "I do not have that information."`)
	assert.Contains(t, prompt, "Context:\n"+context+"\n")
	assert.Contains(t, prompt, "Question:\nWhat is the leave policy?\n")
	assert.True(t, strings.HasSuffix(prompt, "Answer:\n"))
	assert.Less(t, strings.Index(prompt, "Context:"), strings.Index(prompt, "Question:"))
}

func TestBuildGeneralPrompt(t *testing.T) {
	prompt := rag.BuildGeneralPrompt("What's the weather today?")

	assert.Contains(t, prompt, "You are a helpful, professional AI assistant.")
	assert.Contains(t, prompt, "Question:\nWhat's the weather today?\n")
	assert.NotContains(t, prompt, "Context:")
	assert.True(t, strings.HasSuffix(prompt, "Answer:\n"))
}
