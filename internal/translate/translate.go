// Package translate produces target-language corpora from the English
// master, with a round-trip fidelity gate: each question is translated out
// and back, and only questions whose back-translation stays semantically
// close to the original survive.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellarlinkco/lingbench/internal/llm"
)

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// LLMTranslator performs translation through a chat provider.
type LLMTranslator struct {
	Provider llm.Provider
	Model    string
}

// Translate asks the provider for a bare translation of text.
func (t *LLMTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if t == nil || t.Provider == nil {
		return "", errors.New("translate: nil provider")
	}

	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Output only the translation, with no explanation or quotes.\n\n%s",
		languageName(sourceLang), languageName(targetLang), text,
	)

	resp, err := t.Provider.Complete(ctx, &llm.Request{
		Model:     t.Model,
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: 1024,
	})
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(resp.Text)
	if out == "" {
		return "", errors.New("translate: empty translation")
	}
	return out, nil
}

func languageName(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "en":
		return "English"
	case "de":
		return "German"
	case "es":
		return "Spanish"
	case "fr":
		return "French"
	case "it":
		return "Italian"
	case "pt":
		return "Portuguese"
	default:
		return code
	}
}
