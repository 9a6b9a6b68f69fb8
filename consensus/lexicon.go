package consensus

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"collab-lab/errors"
)

//go:embed lexicons/*
var lexiconFolder embed.FS

// Lexicon carries one polarity's keyword sets keyed by ISO-639-1 language
// code, plus metadata for logging.
type Lexicon struct {
	WordsByLang map[string][]string
	Languages   []string
}

// LexiconLoader reads keyword dictionaries from embedded files. Each
// polarity directory holds one .txt file per language (e.g. "en.txt"),
// one keyword or phrase per line.
type LexiconLoader struct {
	fs embed.FS
}

func NewLexiconLoader(f embed.FS) *LexiconLoader {
	return &LexiconLoader{fs: f}
}

// Load scans the given polarity directory and parses each language file
// into a deduplicated, lowercased keyword list.
func (l *LexiconLoader) Load(path string) (*Lexicon, error) {
	entries, err := fs.ReadDir(l.fs, path)
	if err != nil {
		return nil, err
	}

	lexicon := &Lexicon{WordsByLang: make(map[string][]string)}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Track the language based on the filename (e.g., "fr.txt" -> "fr")
		lang := strings.TrimSuffix(entry.Name(), ".txt")

		data, err := l.fs.ReadFile(path + "/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// Use a scanner to handle different line endings (\n vs \r\n) correctly
		unique := make(map[string]struct{})
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if line != "" {
				unique[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}

		if len(unique) == 0 {
			continue
		}

		words := make([]string, 0, len(unique))
		for w := range unique {
			words = append(words, w)
		}
		lexicon.WordsByLang[lang] = words
		lexicon.Languages = append(lexicon.Languages, lang)
	}

	if len(lexicon.WordsByLang) == 0 {
		return nil, errors.ErrEmptyLexicon
	}
	return lexicon, nil
}
