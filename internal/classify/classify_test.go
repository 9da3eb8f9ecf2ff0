package classify

import (
	"testing"

	"github.com/VamsiPutheti12/News-Agent/internal/model"
)

func TestClassifyCodeTable(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		code string
		want model.Category
	}{
		{"cs.AI", model.CategoryAI},
		{"cs.LG", model.CategoryML},
		{"stat.ML", model.CategoryML},
		{"cs.NE", model.CategoryDL},
		{"cs.CV", model.CategoryCV},
		{"cs.CL", model.CategoryNLP},
		{"cs.RO", model.CategoryRobotics},
	}

	for _, tt := range tests {
		got := c.Classify(tt.code, "Generic title", "Generic body text.")
		if got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestClassifyFallbackForUnknownCode(t *testing.T) {
	c := NewDefault()
	if got := c.Classify("math.OC", "Optimization methods", "Convex analysis."); got != model.CategoryAI {
		t.Errorf("expected fallback %q, got %q", model.CategoryAI, got)
	}
	if got := c.Classify("", "AI startup raises funding", "A funding round."); got != model.CategoryAI {
		t.Errorf("expected fallback for empty code, got %q", got)
	}
}

func TestOverrideBeatsCodeTable(t *testing.T) {
	c := NewDefault()
	// cs.CV maps to Computer Vision, but the text matches the RL vocabulary.
	got := c.Classify("cs.CV", "Reward Shaping for Robust Policies", "We study visual control tasks.")
	if got != model.CategoryRL {
		t.Errorf("expected %q, got %q", model.CategoryRL, got)
	}
}

func TestOverrideOrderRLBeforeSafety(t *testing.T) {
	c := NewDefault()
	// Matches both vocabularies ("rlhf" and "alignment"); the RL rule is
	// evaluated first and must win.
	got := c.Classify("cs.CL", "RLHF and alignment", "Combining rlhf with alignment objectives.")
	if got != model.CategoryRL {
		t.Errorf("expected %q, got %q", model.CategoryRL, got)
	}
}

func TestSafetyOverride(t *testing.T) {
	c := NewDefault()
	got := c.Classify("cs.CL", "Interpretable Transformer Alignment", "A study of model internals.")
	if got != model.CategorySafety {
		t.Errorf("expected %q, got %q", model.CategorySafety, got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewDefault()
	got := c.Classify("", "JAILBREAK Attacks Revisited", "Prompt injection survey.")
	if got != model.CategorySafety {
		t.Errorf("expected %q, got %q", model.CategorySafety, got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewDefault()
	first := c.Classify("cs.LG", "Policy gradient methods", "An actor-critic baseline.")
	for i := 0; i < 10; i++ {
		if got := c.Classify("cs.LG", "Policy gradient methods", "An actor-critic baseline."); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

func TestApply(t *testing.T) {
	c := NewDefault()
	items := []model.Item{
		{RawCategory: "cs.CV", Title: "Image Segmentation via Diffusion", SummaryText: "Pixel-level masks."},
		{RawCategory: "", Title: "Startup ships robot", SummaryText: "A warehouse robotics deployment."},
	}
	c.Apply(items)

	if items[0].Category != model.CategoryCV {
		t.Errorf("expected %q, got %q", model.CategoryCV, items[0].Category)
	}
	if items[1].Category != model.CategoryAI {
		t.Errorf("expected fallback %q, got %q", model.CategoryAI, items[1].Category)
	}
}
