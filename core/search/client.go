package search

//go:generate mockery --name=IndexQueryClient -r --case underscore --with-expecter --structname IndexQueryClient --filename index_query_client.go --output=./mocks
import "context"

// IndexQuery is the engine-agnostic form of a query against one index.
type IndexQuery struct {
	Index     string
	Text      string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// Offset is the number of matches skipped before the requested page.
func (q IndexQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// IndexQueryClient runs a single query against one named index of the
// search engine. Implementations must be safe for concurrent use and report
// failures as EngineError.
type IndexQueryClient interface {
	Query(ctx context.Context, q IndexQuery) (items []Document, total int, err error)
}
