package utils

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadPrompt loads prompt instructions from a specific file path
// The path must be exact - no fallback searching is performed
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read prompt %s", filePath)
	}

	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		return "", errors.Errorf("prompt file %s is empty", filePath)
	}

	return prompt, nil
}

// LoadPromptWithFallback loads prompt instructions from a specific file path with a fallback
// If the path is empty or the file cannot be used, it returns the fallback string
func LoadPromptWithFallback(filePath, fallback string) string {
	if filePath == "" {
		return fallback
	}
	if content, err := LoadPrompt(filePath); err == nil {
		return content
	}
	return fallback
}
