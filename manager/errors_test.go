package manager

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestMessageFoldsToOperation(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"suggestions network", NetworkError(OpSuggestions, cause), MsgSuggestions},
		{"suggestions parse", ParseError(OpSuggestions, cause), MsgSuggestions},
		{"suggestions upstream", UpstreamError(OpSuggestions, 500, cause), MsgSuggestions},
		{"weather network", NetworkError(OpWeather, cause), MsgWeather},
		{"weather upstream", UpstreamError(OpWeather, 404, cause), MsgWeather},
		{"wrapped", fmt.Errorf("outer: %w", ParseError(OpSuggestions, cause)), MsgSuggestions},
		{"untyped", cause, MsgWeather},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestFetchErrorKeepsCause(t *testing.T) {
	err := ParseError(OpWeather, io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause to unwrap")
	}

	var fe *FetchError
	if !errors.As(UpstreamError(OpWeather, 502, io.EOF), &fe) {
		t.Fatalf("expected *FetchError")
	}
	if fe.Kind != KindUpstream || fe.Status != 502 || fe.Op != OpWeather {
		t.Fatalf("unexpected fields %+v", fe)
	}
	if got := fe.Error(); got != "weather: upstream error, status 502: EOF" {
		t.Fatalf("unexpected text %q", got)
	}
}
