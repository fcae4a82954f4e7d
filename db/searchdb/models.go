package searchdb

// Document is what gets indexed. The name doubles as the document ID.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Match is the byte range of one matched term occurrence within the content field.
type Match struct {
	Start uint64
	End   uint64
}

type Result struct {
	Name    string
	Score   float64
	Matches []Match
}

type Response struct {
	Results []Result
	Total   uint64
}
