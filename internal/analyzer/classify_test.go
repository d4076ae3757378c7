package analyzer

import (
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		question string
		want     Category
	}{
		{"why is the sky blue", CategoryWhy},
		{"Why is the sky blue?", CategoryWhy},
		{"what makes the sky red", CategoryWhat},
		{"how high is the sky", CategoryHow},
		{"when does the sun set", CategoryWhen},
		{"where does the sky end", CategoryWhere},
		{"who named the sky", CategoryWho},
		{"whose idea was daylight saving", CategoryWho},
		{"which color is the sun", CategoryWhich},
		{"in which year did it happen", CategoryWhich},
		{"is the sky actually blue", CategoryYesNo},
		{"can the sky be green", CategoryYesNo},
		{"does the moon have a sky", CategoryYesNo},
		{"name the layers of the atmosphere", CategoryOther},
		{"", CategoryOther},
		{"   ", CategoryOther},
	}

	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			if got := Classify(tc.question); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.question, got, tc.want)
			}
		})
	}
}

func TestCountByCategory(t *testing.T) {
	questions := []string{
		"why is the sky blue",
		"why is the ocean blue",
		"is water blue",
		"how do rainbows form",
	}

	counts := CountByCategory(questions)

	if counts[CategoryWhy] != 2 {
		t.Errorf("expected 2 why questions, got %d", counts[CategoryWhy])
	}
	if counts[CategoryYesNo] != 1 {
		t.Errorf("expected 1 yes/no question, got %d", counts[CategoryYesNo])
	}
	if counts[CategoryHow] != 1 {
		t.Errorf("expected 1 how question, got %d", counts[CategoryHow])
	}
}

func benchmarkQuestions(n int) []string {
	leads := []string{"why is", "what makes", "how does", "is", "can", "name"}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%s the number %d interesting", leads[i%len(leads)], i))
	}
	return out
}

func BenchmarkClassify(b *testing.B) {
	questions := benchmarkQuestions(1000)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, q := range questions {
			_ = Classify(q)
		}
	}
}

func BenchmarkCountByCategory(b *testing.B) {
	questions := benchmarkQuestions(1000)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CountByCategory(questions)
	}
}
