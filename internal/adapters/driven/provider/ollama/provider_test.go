package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderDefaults(t *testing.T) {
	p := NewProvider(Config{})
	assert.Equal(t, DefaultEmbedModel, p.ModelName())
	assert.Equal(t, DefaultChatModel, p.ChatModelName())
	assert.Equal(t, DefaultBaseURL, p.baseURL)
}

func TestProviderModelNames(t *testing.T) {
	p := NewProvider(Config{EmbedModel: "mxbai-embed-large", ChatModel: "mistral"})
	assert.Equal(t, "mxbai-embed-large", p.ModelName())
	assert.Equal(t, "mistral", p.ChatModelName())
}
