// internal/matching/tfidf.go
package matching

import "math"

// tfidfModel is a term-frequency / inverse-document-frequency vector space
// fitted over one match run's corpus. The similarity it yields is reported
// per result as a diagnostic; it never contributes to the hybrid score.
type tfidfModel struct {
	docFreq map[string]int
	numDocs int
}

// fitTFIDF builds the document frequencies of the given tokenized corpus.
func fitTFIDF(docs [][]string) *tfidfModel {
	m := &tfidfModel{
		docFreq: make(map[string]int),
		numDocs: len(docs),
	}
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			if !seen[tok] {
				seen[tok] = true
				m.docFreq[tok]++
			}
		}
	}
	return m
}

// vector weighs a tokenized document into a sparse tf-idf vector.
func (m *tfidfModel) vector(doc []string) map[string]float64 {
	if len(doc) == 0 {
		return nil
	}
	tf := make(map[string]float64, len(doc))
	for _, tok := range doc {
		tf[tok]++
	}
	vec := make(map[string]float64, len(tf))
	for tok, count := range tf {
		idf := math.Log(float64(m.numDocs)/float64(1+m.docFreq[tok])) + 1
		vec[tok] = (count / float64(len(doc))) * idf
	}
	return vec
}

// cosine computes the cosine similarity of two sparse vectors, iterating
// the smaller one. Zero vectors yield 0.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, av := range a {
		if bv, ok := b[tok]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}
	var na, nb float64
	for _, v := range a {
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// similarityScore converts a cosine similarity into the 0..100 scale used
// elsewhere in the package.
func similarityScore(cos float64) int {
	return int(math.Round(math.Min(1, math.Max(0, cos)) * 100))
}
