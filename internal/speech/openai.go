// Package speech wraps the hosted speech provider behind a small interface
// so the transcription service can be tested without network access.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Provider turns an audio blob into text and text into a formatted note.
type Provider interface {
	// Transcribe converts raw audio bytes into a transcript.
	Transcribe(ctx context.Context, audio []byte) (string, error)
	// Format rewrites a transcript into the structured note JSON. The return
	// value is the provider's raw output; the caller parses and validates it.
	Format(ctx context.Context, transcript string) (string, error)
}

// Config holds the OpenAI-compatible endpoint settings.
type Config struct {
	BaseURL     string        `yaml:"base-url" default:"https://api.openai.com/v1"`
	APIKey      string        `yaml:"api-key"`
	SpeechModel string        `yaml:"speech-model" default:"whisper-1"`
	FormatModel string        `yaml:"format-model" default:"gpt-4.1-nano"`
	Timeout     time.Duration `yaml:"timeout" default:"60s"`
}

// formattingPrompt is the scribe instruction sent with every transcript.
const formattingPrompt = `You are an elite intelligence scribe, like one who follows Churchill everywhere and writes his speeches, meeting notes, and essays. Transform this voice note transcription into a beautifully crafted, essay-style note with intelligent organization.

Return a JSON object with exactly this structure:
{
  "title": "A compelling, content-rich title that captures the essence",
  "content": "The formatted content in Markdown"
}

Your mission as an intelligent scribe:

1. INTELLIGENT HEADERS: Create section headers that ARE the content, not generic labels. Headers should be scannable story beats with specific details, numbers, names, or key insights.

2. ESSAY-STYLE FLOW: Organize content like a thoughtful essay or journal entry, with natural narrative progression, coherent paragraphs of 2-4 sentences, and smooth transitions. Respect the author's original meaning and voice completely.

3. CONTENT-RICH STRUCTURE: Lead with the most important insight in each section. Break long monologues into meaningful chunks based on topic shifts. Use **bold** for key concepts and *italics* for personal reflections. Create bullet points only for actual lists.

4. INTELLIGENT REORGANIZATION: Reorganize for logical flow while preserving ALL original meaning. Move scattered related points together and combine fragmented thoughts into complete ideas.

5. POLISHED LANGUAGE: Remove filler words, fix grammatical errors, enhance readability while keeping the personal, conversational tone intact.

6. TITLE CRAFTSMANSHIP: Create a title that captures the main insight, story, or discovery. It should intrigue and inform.

Raw Transcription: %q`

type openaiProvider struct {
	cfg    Config
	client *http.Client
}

// NewOpenAIProvider builds a Provider talking to an OpenAI-compatible API.
func NewOpenAIProvider(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = "whisper-1"
	}
	if cfg.FormatModel == "" {
		cfg.FormatModel = "gpt-4.1-nano"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &openaiProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (p *openaiProvider) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", errors.Wrap(err, "build multipart body")
	}
	if _, err = part.Write(audio); err != nil {
		return "", errors.Wrap(err, "build multipart body")
	}
	if err = writer.WriteField("model", p.cfg.SpeechModel); err != nil {
		return "", errors.Wrap(err, "build multipart body")
	}
	if err = writer.Close(); err != nil {
		return "", errors.Wrap(err, "build multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	respBody, err := p.do(req)
	if err != nil {
		return "", errors.Wrap(err, "transcription request")
	}

	var out transcriptionResponse
	if err := sonic.Unmarshal(respBody, &out); err != nil {
		return "", errors.Wrap(err, "decode transcription response")
	}
	return out.Text, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *openaiProvider) Format(ctx context.Context, transcript string) (string, error) {
	payload := chatRequest{
		Model: p.cfg.FormatModel,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(formattingPrompt, transcript)},
		},
		Temperature:    0.3,
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	respBody, err := p.do(req)
	if err != nil {
		return "", errors.Wrap(err, "format request")
	}

	var out chatResponse
	if err := sonic.Unmarshal(respBody, &out); err != nil {
		return "", errors.Wrap(err, "decode chat response")
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (p *openaiProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("provider returned %d: %s",
			resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
