package manager

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrNoSelection = errors.New("no location selected")
	ErrNotSaved    = errors.New("selection not saved")
)

type Op int

const (
	OpSuggestions Op = iota
	OpWeather
)

func (o Op) String() string {
	switch o {
	case OpSuggestions:
		return "suggestions"
	case OpWeather:
		return "weather"
	}
	return "unknown"
}

type Kind int

const (
	KindNetwork Kind = iota
	KindParse
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindUpstream:
		return "upstream"
	}
	return "unknown"
}

const (
	MsgSuggestions = "Failed to fetch location suggestions"
	MsgWeather     = "Failed to fetch weather data"
)

// FetchError keeps the cause of a failed upstream lookup. Status is set only for KindUpstream.
type FetchError struct {
	Op     Op
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindUpstream {
		return fmt.Sprintf("%s: %s error, status %d: %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NetworkError(op Op, err error) error {
	return &FetchError{Op: op, Kind: KindNetwork, Err: err}
}

func ParseError(op Op, err error) error {
	return &FetchError{Op: op, Kind: KindParse, Err: err}
}

func UpstreamError(op Op, status int, err error) error {
	return &FetchError{Op: op, Kind: KindUpstream, Status: status, Err: err}
}

func (o Op) Message() string {
	if o == OpSuggestions {
		return MsgSuggestions
	}
	return MsgWeather
}

// Message folds err into the single string shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Op.Message()
	}
	return MsgWeather
}
