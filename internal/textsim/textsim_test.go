package textsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "golang", b: "golang", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "abc", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "shifted block", a: "abcd", b: "bcde", want: 0.75},
		{name: "multibyte runes", a: "café", b: "cafe", want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_SharedPrefix(t *testing.T) {
	a := "science in computer science"
	b := "science in computer engineering"
	assert.InDelta(t, 46.0/58.0, Ratio(a, b), 1e-9)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}

func TestCosine_DegenerateVectors(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestIdentityLemmatizer(t *testing.T) {
	assert.Equal(t, "services", IdentityLemmatizer{}.Lemma("services"))
}

func TestNewLemmatizer(t *testing.T) {
	lemmatizer, err := NewLemmatizer()
	require.NoError(t, err)

	assert.Equal(t, "service", lemmatizer.Lemma("services"))
	assert.Equal(t, "", lemmatizer.Lemma(""))
	assert.Equal(t, "kubernetes", lemmatizer.Lemma("kubernetes"))
}

func TestNewLemmatizer_CrossPartOfSpeech(t *testing.T) {
	lemmatizer, err := NewLemmatizer()
	require.NoError(t, err)

	// golem is not a noun-only lemmatizer
	assert.Equal(t, "aw", lemmatizer.Lemma("aws"))
	assert.Equal(t, "datum", lemmatizer.Lemma("data"))
	assert.Equal(t, "good", lemmatizer.Lemma("better"))
}
