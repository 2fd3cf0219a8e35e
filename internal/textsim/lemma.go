package textsim

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a single word to its dictionary base form
type Lemmatizer interface {
	Lemma(word string) string
}

// IdentityLemmatizer returns words unchanged
type IdentityLemmatizer struct{}

// Lemma returns word as is
func (IdentityLemmatizer) Lemma(word string) string { return word }

// dictionaryLemmatizer looks words up in the English golem dictionary
type dictionaryLemmatizer struct {
	lemmatizer *golem.Lemmatizer
}

// NewLemmatizer loads the English lemma dictionary.
// Words missing from the dictionary are returned lowercased but otherwise unchanged.
func NewLemmatizer() (Lemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load english lemma dictionary: %w", err)
	}
	return &dictionaryLemmatizer{lemmatizer: l}, nil
}

// Lemma returns the base form of word
func (d *dictionaryLemmatizer) Lemma(word string) string {
	if word == "" {
		return ""
	}
	lemma := d.lemmatizer.Lemma(word)
	if lemma == "" {
		return strings.ToLower(word)
	}
	return lemma
}
