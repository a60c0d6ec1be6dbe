package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid search request")
	ErrEmptyRegistry  = errors.New("index registry is empty")
)

// InvalidRequestError is a request-shape error detected before fan-out.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (err InvalidRequestError) Error() string {
	if err.Field == "" {
		return err.Reason
	}
	return fmt.Sprintf("%s: %s", err.Field, err.Reason)
}

func (err InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// UnknownIndexError reports an index name that is not registered.
type UnknownIndexError struct {
	Index string
	Known []string
}

func (err UnknownIndexError) Error() string {
	return fmt.Sprintf("unknown index %q, expected one of [%s]", err.Index, strings.Join(err.Known, ", "))
}

func (err UnknownIndexError) Unwrap() error { return ErrInvalidRequest }

// EngineError is returned by an IndexQueryClient when the engine rejects or
// fails a call. Kind carries the classification into the error taxonomy.
type EngineError struct {
	Kind  ErrorKind
	Op    string
	Index string
	Code  string
	Err   error
}

func (err EngineError) Error() string {
	var s strings.Builder
	s.WriteString("engine error: ")
	if err.Op != "" {
		s.WriteString(err.Op + ": ")
	}
	if err.Index != "" {
		s.WriteString("index '" + err.Index + "': ")
	}
	if err.Code != "" {
		s.WriteString("code '" + err.Code + "': ")
	}
	if err.Err != nil {
		s.WriteString(err.Err.Error())
	} else {
		s.WriteString(string(err.Kind))
	}
	return s.String()
}

func (err EngineError) Unwrap() error { return err.Err }

// ConsistencyError lists write-path targets naming indexes that are not
// part of the registry.
type ConsistencyError struct {
	// Unregistered maps a write-path target to the index name it points at.
	Unregistered map[string]string
	Registered   []string
}

func (err ConsistencyError) Error() string {
	targets := make([]string, 0, len(err.Unregistered))
	for target := range err.Unregistered {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, fmt.Sprintf("%s -> %q", target, err.Unregistered[target]))
	}
	return fmt.Sprintf(
		"index registry mismatch: write path targets unregistered indexes (%s); registered: [%s]",
		strings.Join(parts, ", "), strings.Join(err.Registered, ", "),
	)
}
