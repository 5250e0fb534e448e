package results

import (
	"encoding/json"
	"time"
)

// RawResponse is the payload returned by a model endpoint. It is
// discriminated at decode time: a well-formed payload is a JSON object whose
// "response" field (if present) is a string; anything else is malformed and
// surfaces to the scorer as such rather than as a decode failure.
type RawResponse struct {
	Valid    bool   // payload was a recognized object
	Response string // response text, empty when absent
	HasError bool   // payload carried an "error" key
	Error    string // the error indicator, when a string

	raw json.RawMessage
}

// OK returns a well-formed payload carrying response text.
func OK(text string) RawResponse {
	return RawResponse{Valid: true, Response: text}
}

// Errored returns a well-formed payload carrying an error indicator.
func Errored(msg string) RawResponse {
	return RawResponse{Valid: true, HasError: true, Error: msg}
}

func (r *RawResponse) UnmarshalJSON(b []byte) error {
	*r = RawResponse{raw: append(json.RawMessage(nil), b...)}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil || obj == nil {
		return nil
	}

	r.Valid = true
	if raw, ok := obj["response"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			r.Valid = false
			return nil
		}
		r.Response = s
	}
	if raw, ok := obj["error"]; ok {
		r.HasError = true
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			r.Error = s
		}
	}
	return nil
}

func (r RawResponse) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	obj := make(map[string]string, 2)
	if r.HasError {
		obj["error"] = r.Error
	} else {
		obj["response"] = r.Response
	}
	return json.Marshal(obj)
}

// ResponseRecord is one raw experimental result: a single model's answer to
// a single question in a single language.
type ResponseRecord struct {
	TestID          string      `json:"test_id"`
	QuestionID      string      `json:"question_id"`
	ModelIdentifier string      `json:"model_identifier"`
	Language        string      `json:"language"`
	PromptText      string      `json:"prompt_text,omitempty"`
	RawResponse     RawResponse `json:"raw_response"`
	TimestampUTC    time.Time   `json:"timestamp_utc"`
}

// ScoredRow is one scored response, the unit consumed by the aggregator.
// Similarity is nil for outcomes where no reasoning comparison was made.
type ScoredRow struct {
	QuestionID      string   `json:"question_id"`
	ModelIdentifier string   `json:"model_identifier"`
	Language        string   `json:"language"`
	Domain          string   `json:"domain,omitempty"`
	Score           float64  `json:"score"`
	ScoreCategory   string   `json:"score_category"`
	Similarity      *float64 `json:"reasoning_similarity,omitempty"`
	PromptText      string   `json:"prompt_text,omitempty"`
}
