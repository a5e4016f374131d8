package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		want []string
	}{
		{
			name: "with cause",
			err:  IOError("chunk read failed", errors.New("disk gone")),
			want: []string{"[io]", "chunk read failed", "disk gone"},
		},
		{
			name: "without cause",
			err:  NoValidPagesError("selection is empty"),
			want: []string{"[no_valid_pages]", "selection is empty"},
		},
		{
			name: "cancelled",
			err:  CancelledError("extraction cancelled"),
			want: []string{"[cancelled]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Error() = %q, want it to contain %q", got, w)
				}
			}
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := RenderError("page 3 failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var de *DomainError
	if !errors.As(wrapped, &de) {
		t.Fatal("errors.As should find the DomainError through wrapping")
	}
	if de.Type != ErrorTypeRender {
		t.Errorf("Type = %q, want %q", de.Type, ErrorTypeRender)
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(InvalidInputError("bad", nil)); got != ErrorTypeInvalidInput {
		t.Errorf("TypeOf = %q, want %q", got, ErrorTypeInvalidInput)
	}
	if got := TypeOf(errors.New("plain")); got != "" {
		t.Errorf("TypeOf(plain error) = %q, want empty", got)
	}
	if got := TypeOf(nil); got != "" {
		t.Errorf("TypeOf(nil) = %q, want empty", got)
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(CancelledError("stop")) {
		t.Error("IsCancelled should be true for a cancelled error")
	}
	if IsCancelled(IOError("read", nil)) {
		t.Error("IsCancelled should be false for an io error")
	}
	if !IsCancelled(fmt.Errorf("wrapped: %w", CancelledError("stop"))) {
		t.Error("IsCancelled should see through wrapping")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NoValidPagesError("empty"), "page range"},
		{CancelledError("stop"), "cancelled"},
		{FormatError("bad magic", nil), "valid PDF"},
		{errors.New("mystery"), "unexpectedly"},
	}
	for _, tt := range tests {
		got := UserMessage(tt.err)
		if !strings.Contains(strings.ToLower(got), strings.ToLower(tt.want)) {
			t.Errorf("UserMessage(%v) = %q, want it to mention %q", tt.err, got, tt.want)
		}
	}
	if UserMessage(nil) != "" {
		t.Error("UserMessage(nil) should be empty")
	}
}
