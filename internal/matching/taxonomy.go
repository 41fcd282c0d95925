// internal/matching/taxonomy.go
package matching

import (
	"regexp"
	"strings"
)

// fieldEntry maps a canonical field of study to the keywords that identify
// it. Keywords cover English and Malay program names.
type fieldEntry struct {
	field    string
	keywords []string
}

// fieldTable is ordered; the first entry whose keyword matches wins.
var fieldTable = []fieldEntry{
	{"computer science", []string{
		"computer science", "sains komputer", "computing", "informatik",
		"information technology", "teknologi maklumat", "sistem maklumat",
		"software", "kejuruteraan perisian", "data science", "sains data",
	}},
	{"engineering", []string{
		"engineering", "kejuruteraan", "civil", "awam", "mechanical",
		"mekanikal", "electrical", "elektrik", "electronics", "elektronik",
		"chemical", "kimia", "industrial", "industri", "aerospace",
		"aeroangkasa", "biomedical", "bioperubatan",
	}},
	{"business", []string{
		"business", "perniagaan", "accounting", "perakaunan", "finance",
		"kewangan", "marketing", "pemasaran", "management", "pengurusan",
		"entrepreneurship", "keusahawanan", "economics", "ekonomi",
		"logistics", "logistik", "supply chain", "rantaian bekalan",
		"perbankan", "banking", "insurance", "insurans",
	}},
	{"medicine", []string{
		"medicine", "perubatan", "medical", "pharmacy", "farmasi", "nursing",
		"kejururawatan", "dentistry", "pergigian", "physiotherapy",
		"fisioterapi", "radiography", "radiografi", "public health",
		"kesihatan awam", "nutrition", "pemakanan", "dietetik", "optometry",
		"optometri", "allied health", "kesihatan sekutu",
	}},
	{"science", []string{
		"science", "sains", "biology", "biologi", "chemistry", "kimia",
		"physics", "fizik", "mathematics", "matematik", "statistics",
		"statistik", "actuarial", "aktuari", "geology", "geologi",
		"environmental", "alam sekitar", "biotechnology", "bioteknologi",
	}},
	{"arts", []string{
		"arts", "sastera", "design", "reka bentuk", "graphic", "grafik",
		"animation", "animasi", "architecture", "seni bina", "interior",
		"dalaman", "urban planning", "perancangan bandar",
		"quantity surveying", "ukur bahan",
	}},
	{"education", []string{
		"education", "pendidikan", "teaching", "pengajaran",
		"early childhood", "awal kanak kanak",
	}},
	{"law", []string{"law", "undang undang", "legal"}},
	{"social sciences", []string{
		"psychology", "psikologi", "counseling", "kaunseling",
		"communication", "komunikasi", "journalism", "kewartawanan",
		"public relations", "perhubungan awam", "political", "politik",
		"sociology", "sosiologi", "history", "sejarah", "geography",
		"geografi", "international relations", "hubungan antarabangsa",
		"social work", "kerja sosial",
	}},
	{"hospitality", []string{
		"hospitality", "hospitaliti", "tourism", "pelancongan",
		"event management", "pengurusan acara",
	}},
	{"sports", []string{
		"sports", "sukan", "sports science", "sains sukan",
		"sports management", "pengurusan sukan",
	}},
	{"agriculture", []string{
		"agriculture", "pertanian", "forestry", "perhutanan", "fisheries",
		"perikanan", "food science", "sains makanan",
	}},
}

var (
	// qualifierRe strips award-level and filler words before field lookup.
	qualifierRe = regexp.MustCompile(`\b(diploma|sarjana\s+muda|sarjana|ijazah|bachelor|degree|foundation|asas|program|programme|programs|courses|course|bidang|pengajian|kepujian|hons)\b`)
	nonAlphaRe  = regexp.MustCompile(`[^a-z\s&]`)
	spaceRe     = regexp.MustCompile(`\s+`)
	// allProgRe catches phrasing like "applicable to all undergraduate programmes".
	allProgRe = regexp.MustCompile(`applicable to all\b.*\bprogram(?:mes|s)\b`)
)

// Taxonomy canonicalizes free-form program and major names into a small set
// of fields of study and decides compatibility between a student's field and
// a scholarship's restriction lists. Stateless and safe for concurrent use.
type Taxonomy struct{}

func NewTaxonomy() *Taxonomy {
	return &Taxonomy{}
}

// NormalizeField maps a raw program or major string to its canonical field.
// It returns "all" for open-to-all phrasings and "" when nothing matches.
func (t *Taxonomy) NormalizeField(s string) string {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "all fields") ||
		strings.Contains(raw, "all programmes") ||
		strings.Contains(raw, "all programs") ||
		allProgRe.MatchString(raw) {
		return "all"
	}

	cleaned := qualifierRe.ReplaceAllString(raw, " ")
	cleaned = nonAlphaRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(spaceRe.ReplaceAllString(cleaned, " "))

	for _, entry := range fieldTable {
		for _, kw := range entry.keywords {
			if strings.Contains(cleaned, kw) {
				return entry.field
			}
		}
	}
	return ""
}

// Compatible reports whether a student's program or major satisfies the
// given restriction lists. The value "Other" is a wildcard that bypasses
// every restriction. Matching proceeds per list: an "all" entry, then a
// canonical-field equality, then a bidirectional substring comparison.
func (t *Taxonomy) Compatible(studentValue string, courses, majors []string) bool {
	norm := strings.ToLower(strings.TrimSpace(studentValue))
	if norm == "" {
		return false
	}
	if norm == "other" {
		return true
	}
	field := t.NormalizeField(norm)

	if t.listMatches(norm, field, courses) {
		return true
	}
	return t.listMatches(norm, field, majors)
}

func (t *Taxonomy) listMatches(norm, field string, entries []string) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if t.NormalizeField(e) == "all" {
			return true
		}
	}
	if field != "" {
		for _, e := range entries {
			if t.NormalizeField(e) == field {
				return true
			}
		}
	}
	for _, e := range entries {
		en := strings.ToLower(strings.TrimSpace(e))
		if en == "" {
			continue
		}
		if en == norm || strings.Contains(en, norm) || strings.Contains(norm, en) {
			return true
		}
	}
	return false
}
