package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeGemini is a canned-response classifier used across the service tests.
type fakeGemini struct {
	mu        sync.Mutex
	response  string
	err       error
	delay     time.Duration
	embedding []float32
	calls     int
}

func (f *fakeGemini) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int32, temperature float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.embedding == nil {
		return nil, errors.New("no embedding configured")
	}
	return f.embedding, nil
}

func (f *fakeGemini) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
