package nlq

type Status string

const (
	StatusSuccess Status = "success"
	StatusNoData  Status = "no_data"
	StatusError   Status = "error"
)

// Envelope is the structured response returned for every question. Invariants:
// StatusSuccess implies non-empty Data and a non-empty Analysis; StatusError
// implies Error, Suggestion, and an error Analysis are set; StatusNoData
// implies Message is set.
type Envelope struct {
	Status     Status  `json:"status"`
	QueryAsked string  `json:"query_asked"`
	Intent     Intent  `json:"intent,omitempty"`
	Params     Params  `json:"params,omitzero"`
	Data       [][]any `json:"data"`
	Count      int     `json:"count,omitempty"`
	Analysis   string  `json:"analysis,omitempty"`
	SQL        string  `json:"sql,omitempty"`
	Message    string  `json:"message,omitempty"`
	Error      string  `json:"error,omitempty"`
	Suggestion string  `json:"suggestion,omitempty"`
}
