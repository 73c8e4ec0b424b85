package gridcacheerr

import (
	"errors"
	"testing"
)

func TestIsFatalClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transport", TransportErr(errors.New("reset"), "read"), true},
		{"bad_format", BadFormatErr(errors.New("short read"), "decode value"), true},
		{"op", OpErr("cache already exists"), false},
		{"usage", UsageErr("mixed credentials"), false},
		{"plain error", errors.New("not ours"), false},
	}
	for _, c := range cases {
		if got := IsFatal(c.err); got != c.want {
			t.Errorf("%s: IsFatal() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHandshakeErrorMessage(t *testing.T) {
	err := HandshakeErr(1, 1, 0, "unsupported client version")
	want := "handshake: server supports v1.1.0: unsupported client version"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := TransportErr(cause, "write request")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the wrapped cause")
	}
}
