package main

import (
	"reflect"
	"testing"
)

func TestRewritePageShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"shopfront"},
			want: []string{"shopfront"},
		},
		{
			name: "page number first token",
			in:   []string{"shopfront", "2"},
			want: []string{"shopfront", "products", "list", "--page", "2"},
		},
		{
			name: "page number after value flag",
			in:   []string{"shopfront", "--endpoint", "http://localhost:9999", "3"},
			want: []string{"shopfront", "--endpoint", "http://localhost:9999", "products", "list", "--page", "3"},
		},
		{
			name: "page number after equals flag",
			in:   []string{"shopfront", "--format=edn", "2"},
			want: []string{"shopfront", "--format=edn", "products", "list", "--page", "2"},
		},
		{
			name: "page number after bool flag keeps trailing flags",
			in:   []string{"shopfront", "--pretty", "2", "--query", "shirt"},
			want: []string{"shopfront", "--pretty", "products", "list", "--page", "2", "--query", "shirt"},
		},
		{
			name: "zero is not a page",
			in:   []string{"shopfront", "0"},
			want: []string{"shopfront", "0"},
		},
		{
			name: "double dash stops rewriting",
			in:   []string{"shopfront", "--", "2"},
			want: []string{"shopfront", "--", "2"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"shopfront", "products", "list", "--page", "2"},
			want: []string{"shopfront", "products", "list", "--page", "2"},
		},
		{
			name: "value flag consumes a numeric value",
			in:   []string{"shopfront", "--log-level", "1"},
			want: []string{"shopfront", "--log-level", "1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewritePageShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewritePageShortcutArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
