package domain

import "testing"

func TestSeedForPrefersWellRatedFinished(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		candidates []Candidate
		want       string
	}{
		{name: "empty", want: DefaultSeed},
		{
			name: "finished rated 4 wins over reading",
			candidates: []Candidate{
				{Title: "Emma", Author: "Jane Austen", Status: "READING"},
				{Title: "Dune", Author: "Frank Herbert", Status: "FINISHED", Rating: 3},
				{Title: "Atomic Habits", Author: "James Clear", Status: "FINISHED", Rating: 4},
			},
			want: "Atomic Habits James Clear",
		},
		{
			name: "low rated finished falls through to reading",
			candidates: []Candidate{
				{Title: "Dune", Author: "Frank Herbert", Status: "FINISHED", Rating: 2},
				{Title: "Emma", Author: "Jane Austen", Status: "READING"},
			},
			want: "Emma Jane Austen",
		},
		{
			name: "to read when nothing else",
			candidates: []Candidate{
				{Title: "Ulysses", Author: "James Joyce", Status: "DROPPED"},
				{Title: "Neuromancer", Author: "William Gibson", Status: "TO_READ"},
			},
			want: "Neuromancer William Gibson",
		},
		{
			name:       "only dropped",
			candidates: []Candidate{{Title: "Ulysses", Status: "DROPPED"}},
			want:       DefaultSeed,
		},
	}
	for _, tc := range cases {
		if got := SeedFor(tc.candidates); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
