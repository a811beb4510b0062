package model

// Document is a reference document held by the evidence index.
// Immutable once indexed; the index owns it for the session.
type Document struct {
	ID      string `json:"id"`                // Unique document identifier
	Title   string `json:"title"`             // Human-readable title
	Content string `json:"content"`           // Full text used for embedding and overlap
	Source  string `json:"source,omitempty"`  // Origin (file path, URL)
	Page    int    `json:"page,omitempty"`    // Page number within the source, if any
}
