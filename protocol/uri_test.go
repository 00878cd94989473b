package protocol_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-stream/protocol"
)

func TestParseURI(t *testing.T) {
	cases := []struct {
		in   string
		want protocol.Endpoint
	}{
		{"ws://example.com", protocol.Endpoint{Host: "example.com", Port: 80, Path: "/"}},
		{"ws://example.com/", protocol.Endpoint{Host: "example.com", Port: 80, Path: "/"}},
		{"ws://10.0.0.5:8080", protocol.Endpoint{Host: "10.0.0.5", Port: 8080, Path: "/"}},
		{"ws://host:81/dev/tty?raw=1", protocol.Endpoint{Host: "host", Port: 81, Path: "/dev/tty?raw=1"}},
		{"ws://host/a:b", protocol.Endpoint{Host: "host", Port: 80, Path: "/a:b"}},
	}
	for _, c := range cases {
		got, err := protocol.ParseURI(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseURIErrors(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"wss://host", protocol.ErrUnsupportedScheme},
		{"http://host", protocol.ErrUnsupportedScheme},
		{"host:80", protocol.ErrUnsupportedScheme},
		{"ws://", protocol.ErrEmptyHost},
		{"ws:///path", protocol.ErrEmptyHost},
		{"ws://:8080/x", protocol.ErrEmptyHost},
		{"ws://host:abc", protocol.ErrInvalidPort},
		{"ws://host:70000", protocol.ErrInvalidPort},
		{"ws://host:/x", protocol.ErrInvalidPort},
	}
	for _, c := range cases {
		_, err := protocol.ParseURI(c.in)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.in, err, c.want)
		}
		var pe *protocol.ParseError
		if !errors.As(err, &pe) || pe.URI != c.in {
			t.Errorf("%s: expected *ParseError, got %T", c.in, err)
		}
	}
}

func TestEndpointAddress(t *testing.T) {
	ep := protocol.Endpoint{Host: "localhost", Port: 9000, Path: "/s"}
	if ep.Address() != "localhost:9000" {
		t.Errorf("address %q", ep.Address())
	}
	if ep.String() != "ws://localhost:9000/s" {
		t.Errorf("string %q", ep.String())
	}
}
