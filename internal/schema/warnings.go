package schema

import (
	"errors"
	"fmt"
)

// Failure classes. Each one is scoped to the file it occurred in.
var (
	ErrParse      = errors.New("parse failure")
	ErrResolution = errors.New("resolution failure")
	ErrIO         = errors.New("io failure")
)

// Warning kinds.
const (
	WarningParse      = "parse"
	WarningResolution = "resolution"
	WarningIO         = "io"
	WarningOther      = "other"
)

// Warning is a skipped file or table.
type Warning struct {
	Kind    string `json:"kind" yaml:"kind"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	if w.File == "" {
		return fmt.Sprintf("[%s] %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.File, w.Message)
}

// NewWarning classifies err by its sentinel.
func NewWarning(file string, err error) Warning {
	kind := WarningOther
	switch {
	case errors.Is(err, ErrParse):
		kind = WarningParse
	case errors.Is(err, ErrResolution):
		kind = WarningResolution
	case errors.Is(err, ErrIO):
		kind = WarningIO
	}
	return Warning{Kind: kind, File: file, Message: err.Error()}
}
