package quality

import (
	"testing"

	"github.com/FocuswithJustin/juniper-corpus/core/ir"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		text string
		want Class
	}{
		{"For God so loved the world, that he gave his only begotten Son", Real},
		{"No princípio criou Deus os céus e a terra.", Real},
		{"[Genesis 1:1] In the beginning of this account, the narrative unfolds.", Synthesized},
		{"Verse text to be completed later by the editor.", Synthesized},
		{"Texto del versículo por completar pronto.", Synthesized},
		{"Texto do versículo a ser completado em breve.", Synthesized},
		{"PLACEHOLDER verse text goes here.", Synthesized},
		{"closing bracket] only", Synthesized},
		{"Jesus wept.", Real},
		{"Amen.", Synthesized},
		{"   short    ", Synthesized},
		{"", Synthesized},
	}
	for _, tt := range tests {
		if got := ClassifyText(tt.text); got != tt.want {
			t.Errorf("ClassifyText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestClassifyUsesText(t *testing.T) {
	v := ir.Verse{ID: "John-3-16", Text: "For God so loved the world", VersionID: ir.FallbackVersionID}
	if Classify(v) != Real || !IsReal(v) {
		t.Error("classification must depend on text only, not version id")
	}
}

func TestAssess(t *testing.T) {
	realText := "In the beginning God created the heaven and the earth."
	filler := "[Gen 1:2] to be completed"

	tests := []struct {
		name   string
		verses []string
		want   Report
	}{
		{"empty", nil, Report{}},
		{"all real", []string{realText, realText}, Report{Total: 2, Real: 2, Percentage: 100}},
		{"all filler", []string{filler, filler, filler}, Report{Total: 3, Placeholders: 3, Percentage: 0}},
		{"one third", []string{realText, filler, filler}, Report{Total: 3, Real: 1, Placeholders: 2, Percentage: 33.33}},
		{"two thirds", []string{realText, realText, filler}, Report{Total: 3, Real: 2, Placeholders: 1, Percentage: 66.67}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vs []ir.Verse
			for _, text := range tt.verses {
				vs = append(vs, ir.Verse{Text: text})
			}
			if got := Assess(vs); got != tt.want {
				t.Errorf("Assess() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPercentageMonotonic(t *testing.T) {
	prev := Percentage(10, 10)
	if prev != 100 {
		t.Fatalf("Percentage(10, 10) = %v, want 100", prev)
	}
	for realCount := 9; realCount >= 0; realCount-- {
		p := Percentage(realCount, 10)
		if p >= prev {
			t.Errorf("Percentage(%d, 10) = %v, not below %v", realCount, p, prev)
		}
		prev = p
	}
	if AssessSnapshot(nil) != (Report{}) {
		t.Error("AssessSnapshot(nil) should be zero")
	}
}
