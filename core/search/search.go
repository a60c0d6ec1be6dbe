package search

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	SortAscending  = "asc"
	SortDescending = "desc"

	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Request is a single federated search across one or more registered
// indexes. Page and PerPage apply to every index alike.
type Request struct {
	Indexes   []string `json:"indexes" validate:"required,min=1,unique,dive,required"`
	Query     string   `json:"query" validate:"required"`
	Page      int      `json:"page" validate:"gte=1"`
	PerPage   int      `json:"per_page" validate:"gte=1,lte=100"`
	SortBy    string   `json:"sort_by,omitempty"`
	SortOrder string   `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Attribute is a single key/value pair of a document. Keys are not unique.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Document is a unit of indexed content as returned by the engine.
type Document struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	IndexName  string      `json:"index_name"`
	Attributes []Attribute `json:"attributes"`
}

type ErrorKind string

const (
	ErrorKindIndexNotFound ErrorKind = "index_not_found"
	ErrorKindConnection    ErrorKind = "connection_error"
	ErrorKindTimeout       ErrorKind = "timeout_error"
	ErrorKindQuery         ErrorKind = "query_error"
	ErrorKindPermission    ErrorKind = "permission_error"
	ErrorKindUnknown       ErrorKind = "unknown_error"
)

func (k ErrorKind) String() string { return string(k) }

// IsValid reports whether k belongs to the error taxonomy.
func (k ErrorKind) IsValid() bool {
	switch k {
	case ErrorKindIndexNotFound, ErrorKindConnection, ErrorKindTimeout,
		ErrorKindQuery, ErrorKindPermission, ErrorKindUnknown:
		return true
	}
	return false
}

// IndexError describes why a single index could not be searched.
type IndexError struct {
	IndexName string    `json:"index_name"`
	Kind      ErrorKind `json:"error_kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Outcome is the result of querying one index. When Success is false only
// Error is populated; every other field keeps its zero value apart from an
// empty Items slice.
type Outcome struct {
	IndexName  string      `json:"index_name"`
	Success    bool        `json:"success"`
	Items      []Document  `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	HasNext    bool        `json:"has_next"`
	HasPrev    bool        `json:"has_prev"`
	TotalPages int         `json:"total_pages"`
	Error      *IndexError `json:"error,omitempty"`
}

// Response is the aggregate of every per-index outcome of a Request.
type Response struct {
	Results            Results  `json:"results"`
	Query              string   `json:"query"`
	Page               int      `json:"page"`
	PerPage            int      `json:"per_page"`
	TotalAcrossIndexes int      `json:"total_across_indexes"`
	IndexesSearched    []string `json:"indexes_searched"`
	PartialFailure     bool     `json:"partial_failure"`
	Summary            Summary  `json:"summary"`
	SuccessRate        float64  `json:"success_rate"`
}

// Results maps index names to outcomes while keeping request order.
type Results struct {
	order    []string
	outcomes map[string]Outcome
}

func (r Results) Len() int { return len(r.order) }

// Names returns the index names in request order.
func (r Results) Names() []string {
	return append([]string(nil), r.order...)
}

func (r Results) Get(index string) (Outcome, bool) {
	o, ok := r.outcomes[index]
	return o, ok
}

func (r Results) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.order, func(name string) interface{} { return r.outcomes[name] })
}

// Summary maps index names to their total match count in request order.
type Summary struct {
	order  []string
	totals map[string]int
}

func (s Summary) Len() int { return len(s.order) }

func (s Summary) Names() []string {
	return append([]string(nil), s.order...)
}

func (s Summary) Get(index string) (int, bool) {
	t, ok := s.totals[index]
	return t, ok
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return marshalOrdered(s.order, func(name string) interface{} { return s.totals[name] })
}

func marshalOrdered(keys []string, valueOf func(string) interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(valueOf(k))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
