package domain

// Row is one record of the loaded dataset plus its derived texts.
// Rows are immutable after load; a reload replaces the whole corpus.
type Row struct {
	Index int
	// Text is the colon form ("Column: value. ...") used as LLM context
	// on the semantic route.
	Text string
	// Prose is the sentence form ("Column is value. ...") used for
	// lexical scoring and as context on the keyword route.
	Prose string
	// Original maps column name to raw cell value.
	Original map[string]string
}

// ScoredRow pairs a row with its relevance score for a query.
type ScoredRow struct {
	Row   Row
	Score float64
}

// Corpus is an immutable snapshot of one load generation.
// Embeddings is nil when no embedder was configured at load time;
// otherwise len(Embeddings) == len(Rows), same ordering.
type Corpus struct {
	Rows       []Row
	Embeddings [][]float32
	Generation uint64
}

// Empty reports whether the snapshot holds no rows.
func (c Corpus) Empty() bool {
	return len(c.Rows) == 0
}

// Stats summarizes the current corpus for health reporting.
type Stats struct {
	Loaded     bool
	RowCount   int
	Generation uint64
}
