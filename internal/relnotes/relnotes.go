// Package relnotes generates release notes for the tunnel project by sending
// the commit history to a chat-completion API. One shot: build the request,
// send it, write the reply to a file. No retries, no state.
package relnotes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	DefaultOutputPath = "release_notes.md"

	systemPrompt = "You are a helpful assistant that writes short, simple, and clear " +
		"release notes for a FOSS TCP tunnel project. Summarize the main changes in " +
		"plain language, grouped as 'New', 'Improved', or 'Fixed'. Only output the " +
		"formatted release notes, nothing else."
)

// Config holds everything one generation run needs. All request inputs come
// from the environment; only the model name is an argument.
type Config struct {
	Model       string
	BaseURL     string
	APIKey      string
	Commits     string
	Repository  string
	ReleaseName string
	Version     string
	OutputPath  string
	HTTPClient  *http.Client
}

// FromEnv reads the generation inputs from the environment. The endpoint and
// credential are required; the release metadata may be empty.
func FromEnv(model string) (Config, error) {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		return Config{}, fmt.Errorf("OPENAI_BASE_URL is not set")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	return Config{
		Model:       model,
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Commits:     os.Getenv("COMMITS"),
		Repository:  os.Getenv("GITHUB_REPOSITORY"),
		ReleaseName: os.Getenv("RELEASE_NAME"),
		Version:     os.Getenv("NEW_VERSION"),
		OutputPath:  DefaultOutputPath,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate issues the single outbound request and writes the reply content
// verbatim to the output file.
func Generate(cfg Config) error {
	prompt := fmt.Sprintf(
		"Generate detailed release notes with the following information:\n\n"+
			"Commit History: %s\nRepository: %s\nRelease Name: %s\nVersion: %s\n\n"+
			"Please analyze the commits and generate comprehensive release notes "+
			"following the system guidelines.",
		cfg.Commits, cfg.Repository, cfg.ReleaseName, cfg.Version,
	)

	payload, err := json.Marshal(chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return fmt.Errorf("completion API returned no choices")
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	if err := os.WriteFile(outputPath, []byte(decoded.Choices[0].Message.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}
