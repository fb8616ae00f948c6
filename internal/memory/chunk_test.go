package memory_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/flemzord/agentmem/internal/memory"
)

func TestSplitter_Split(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		sep     string
		size    int
		overlap int
		want    []string
	}{
		{
			name: "overlap carries trailing piece",
			text: "foo bar baz 123", sep: " ", size: 7, overlap: 3,
			want: []string{"foo bar", "bar baz", "baz 123"},
		},
		{
			name: "small chunks",
			text: "foo bar baz a a", sep: " ", size: 3, overlap: 1,
			want: []string{"foo", "bar", "baz", "a a"},
		},
		{
			name: "oversized piece kept whole",
			text: "aaaaaaaaaa b", sep: " ", size: 5, overlap: 0,
			want: []string{"aaaaaaaaaa", "b"},
		},
		{
			name: "fits in one chunk",
			text: "user: Hi\nassistant: Hello", sep: "\n", size: 1000, overlap: 0,
			want: []string{"user: Hi\nassistant: Hello"},
		},
		{
			name: "one message per chunk",
			text: "user: Hi\nassistant: Hello", sep: "\n", size: 16, overlap: 0,
			want: []string{"user: Hi", "assistant: Hello"},
		},
		{
			name: "empty pieces dropped",
			text: "a\n\n\nb", sep: "\n", size: 1, overlap: 0,
			want: []string{"a", "b"},
		},
		{
			name: "empty text",
			text: "", sep: "\n", size: 10, overlap: 0,
			want: nil,
		},
		{
			name: "only separators",
			text: "\n\n", sep: "\n", size: 10, overlap: 0,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := memory.NewSplitter(tt.size, tt.overlap, tt.sep)
			if err != nil {
				t.Fatalf("NewSplitter: %v", err)
			}
			if got := s.Split(tt.text); !slices.Equal(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitter_CountsRunes(t *testing.T) {
	t.Parallel()

	s, err := memory.NewSplitter(5, 0, " ")
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	got := s.Split("héé ööö")
	if want := []string{"héé", "ööö"}; !slices.Equal(got, want) {
		t.Errorf("Split() = %q, want %q", got, want)
	}
}

func TestSplitter_OverlapLargerThanSize(t *testing.T) {
	t.Parallel()

	if _, err := memory.NewSplitter(10, 11, "\n"); !errors.Is(err, memory.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}
