// Package profanity decides whether free text contains disallowed words.
package profanity

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/bytecodeman/addressesapi/internal/config"
)

//go:embed words.yaml
var defaultWordsYAML []byte

// Checker reports whether a piece of text contains profanity.
type Checker interface {
	ContainsProfanity(text string) bool
}

// WordList matches whole words case-insensitively against a fixed set.
type WordList struct {
	words map[string]struct{}
}

// wordFile is the YAML layout of a word list.
type wordFile struct {
	Words []string `yaml:"words"`
}

// NewWordList builds a checker from the given words. Blank entries are ignored.
func NewWordList(words []string) *WordList {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &WordList{words: set}
}

// Default returns the built-in word list.
func Default() *WordList {
	list, err := parseWordList(defaultWordsYAML)
	if err != nil {
		// The embedded file is part of the binary; failing to parse it is a build defect.
		panic(fmt.Sprintf("profanity: invalid embedded word list: %v", err))
	}
	return list
}

// LoadWordList reads a YAML word list from path. The file holds either a
// top-level sequence or a mapping with a "words" sequence.
func LoadWordList(path string) (*WordList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading word list: %w", err)
	}
	list, err := parseWordList(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing word list %s: %w", path, err)
	}
	return list, nil
}

func parseWordList(data []byte) (*WordList, error) {
	var file wordFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Words) > 0 {
		return NewWordList(file.Words), nil
	}

	var words []string
	if err := yaml.Unmarshal(data, &words); err != nil {
		return nil, err
	}
	return NewWordList(words), nil
}

// Len returns the number of distinct words in the list.
func (w *WordList) Len() int {
	return len(w.words)
}

// ContainsProfanity reports whether any word of text is on the list.
func (w *WordList) ContainsProfanity(text string) bool {
	if len(w.words) == 0 || text == "" {
		return false
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, token := range tokens {
		if _, bad := w.words[token]; bad {
			return true
		}
	}
	return false
}

// Disabled accepts all text.
type Disabled struct{}

// ContainsProfanity always reports false.
func (Disabled) ContainsProfanity(string) bool {
	return false
}

// New builds the checker described by the configuration.
func New(cfg *config.ProfanitySettings) (Checker, error) {
	if !cfg.IsEnabled() {
		log.Info().Msg("Profanity filter disabled")
		return Disabled{}, nil
	}

	if cfg.WordsFile == "" {
		list := Default()
		log.Info().Int("words", list.Len()).Msg("Profanity filter using built-in word list")
		return list, nil
	}

	list, err := LoadWordList(cfg.WordsFile)
	if err != nil {
		return nil, err
	}
	log.Info().Int("words", list.Len()).Str("file", cfg.WordsFile).Msg("Profanity filter using custom word list")
	return list, nil
}
