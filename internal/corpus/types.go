package corpus

// Domain identifies the question category a record belongs to.
const (
	DomainFactual    = "Factual Accuracy"
	DomainProcedural = "Procedural Reasoning"
)

// Question is one record of the master corpus. Records are immutable once
// loaded; the scorer only ever reads them.
type Question struct {
	ID                    string `json:"question_id"`
	Domain                string `json:"domain"`
	TextEnglish           string `json:"question_text_english,omitempty"`
	Text                  string `json:"question_text,omitempty"`
	AnswerFormatRegex     string `json:"answer_format_regex"`
	GoldStandardReasoning string `json:"gold_standard_reasoning,omitempty"`
}

// PromptText returns the text to send to a model: the translated text when
// present, otherwise the English master text.
func (q *Question) PromptText() string {
	if q == nil {
		return ""
	}
	if q.Text != "" {
		return q.Text
	}
	return q.TextEnglish
}

// Lookup maps question IDs to their records. It must be fully populated
// before any scoring begins and is read-only afterwards.
type Lookup map[string]*Question

// Get returns the question for id, or nil if absent.
func (l Lookup) Get(id string) *Question {
	if l == nil {
		return nil
	}
	return l[id]
}
