package assist

import (
	"sort"
	"strings"
)

// DocumentCategory buckets the medical knowledge base entries.
type DocumentCategory string

const (
	CategorySymptoms    DocumentCategory = "symptoms"
	CategoryTreatments  DocumentCategory = "treatments"
	CategoryProcedures  DocumentCategory = "procedures"
	CategoryMedications DocumentCategory = "medications"
	CategoryGuidelines  DocumentCategory = "guidelines"
)

// Document is one entry in the medical knowledge base.
type Document struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	Category DocumentCategory `json:"category"`
}

// medicalDocuments is the built-in knowledge base the retrieval runs over.
var medicalDocuments = []Document{
	{
		ID:       "1",
		Title:    "Hypertension Management",
		Content:  "Hypertension (high blood pressure) is managed through lifestyle changes including diet modification, regular exercise, weight management, and medication when necessary. First-line treatments include ACE inhibitors, ARBs, calcium channel blockers, and thiazide diuretics.",
		Category: CategoryTreatments,
	},
	{
		ID:       "2",
		Title:    "Diabetes Type 2 Care",
		Content:  "Type 2 diabetes management involves blood glucose monitoring, dietary control, regular exercise, and medications like metformin, insulin, or other antidiabetic drugs. Regular HbA1c testing and monitoring for complications is essential.",
		Category: CategoryTreatments,
	},
	{
		ID:       "3",
		Title:    "Chest Pain Symptoms",
		Content:  "Chest pain can indicate various conditions from cardiac issues to musculoskeletal problems. Red flags include crushing pain, radiation to arm/jaw, shortness of breath, sweating, and nausea. Immediate evaluation needed for suspected cardiac events.",
		Category: CategorySymptoms,
	},
	{
		ID:       "4",
		Title:    "Routine Physical Exam",
		Content:  "Annual physical exams should include vital signs, BMI calculation, cardiovascular assessment, respiratory examination, abdominal palpation, neurological screening, and age-appropriate screenings like mammograms, colonoscopies, and blood work.",
		Category: CategoryProcedures,
	},
	{
		ID:       "5",
		Title:    "Medication Adherence",
		Content:  "Poor medication adherence leads to treatment failures and complications. Strategies include patient education, simplified dosing regimens, pill organizers, reminder systems, and addressing cost barriers.",
		Category: CategoryGuidelines,
	},
}

// scoreQuery computes a keyword overlap score between the query and a
// title/content pair. Content word matches count once, title matches
// twice, normalized by query length. Word-boundary matching only, no
// stemming or embeddings.
func scoreQuery(query, title, content string) float64 {
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0
	}
	contentWords := wordSet(content)
	titleWords := wordSet(title)

	var score float64
	for _, word := range queryWords {
		if _, ok := contentWords[word]; ok {
			score++
		}
		if _, ok := titleWords[word]; ok {
			score += 2
		}
	}
	return score / float64(len(queryWords))
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// retrieveDocuments returns the topK highest-scoring documents with a
// score above zero, best first.
func retrieveDocuments(docs []Document, query string, topK int) []Document {
	type scored struct {
		doc   Document
		score float64
	}
	matches := make([]scored, 0, len(docs))
	for _, doc := range docs {
		if s := scoreQuery(query, doc.Title, doc.Content); s > 0 {
			matches = append(matches, scored{doc: doc, score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	out := make([]Document, len(matches))
	for i, m := range matches {
		out[i] = m.doc
	}
	return out
}
