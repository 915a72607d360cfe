package services

import (
	"context"
	"errors"
	"strings"
)

// mockEmbedder is a test double for the embedding provider. It records
// every batch it receives and can be told to fail outright or only for
// texts containing failOn.
type mockEmbedder struct {
	batches [][]string
	vector  func(text string) []float32
	err     error
	failOn  string
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range texts {
		if m.failOn != "" && strings.Contains(t, m.failOn) {
			return nil, errors.New("embedding failed")
		}
	}

	m.batches = append(m.batches, texts)

	out := make([][]float32, len(texts))
	for i, t := range texts {
		if m.vector != nil {
			out[i] = m.vector(t)
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

// mockCompleter is a test double for the completion provider. It records
// the last prompts and returns a canned reply.
type mockCompleter struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (m *mockCompleter) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockCompleter) ChatModelName() string { return "mock-chat" }
