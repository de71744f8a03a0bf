package merge

import (
	"testing"

	"github.com/tsawler/pdf2html/classify"
	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

func para(page int, y, x, fontSize, pageWidth, maxX float64, text string) classify.Classified {
	return classify.Classified{
		Role: classify.RoleParagraph,
		Line: model.Line{
			PageIndex: page, Y: y, X: x, FontSize: fontSize, PageWidth: pageWidth,
			EstimatedWidth: maxX - x, Text: text,
		},
	}
}

func TestMergeJoinsWrappedParagraph(t *testing.T) {
	cfg := config.DefaultConfig()
	lines := []classify.Classified{
		para(0, 700, 50, 10, 600, 550, "This sentence continues onto the next"),
		para(0, 688, 50, 10, 600, 550, "line because it did not end with punctuation."),
	}
	paras := Merge(lines, cfg)
	if len(paras) != 1 {
		t.Fatalf("got %d paragraphs, want 1 merged", len(paras))
	}
}

func TestMergeSoftHyphenResolution(t *testing.T) {
	cfg := config.DefaultConfig()
	lines := []classify.Classified{
		para(0, 700, 50, 10, 600, 550, "This is a demonstra-"),
		para(0, 688, 50, 10, 600, 550, "tion of soft hyphen joining."),
	}
	paras := Merge(lines, cfg)
	if len(paras) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paras))
	}
	if paras[0].Text != "This is a demonstration of soft hyphen joining." {
		t.Errorf("got %q", paras[0].Text)
	}
}

func TestMergeStartsNewParagraphAfterTerminalPunct(t *testing.T) {
	cfg := config.DefaultConfig()
	lines := []classify.Classified{
		para(0, 700, 50, 10, 600, 560, "A short full sentence that ends here."),
		para(0, 688, 50, 10, 600, 560, "A brand new paragraph begins on this line."),
	}
	paras := Merge(lines, cfg)
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2 (terminal punctuation, not full width)", len(paras))
	}
}

func TestResolveSoftHyphenRejectsCompoundToken(t *testing.T) {
	_, ok := resolveSoftHyphen("thin films of a-IGZO-", "based materials were used.")
	if ok {
		t.Error("expected compound hyphen token a-IGZO not to be rejoined")
	}
}

func TestDedupSentencePrefix(t *testing.T) {
	got := dedupSentencePrefix("Implementation. Implementation. Details follow here.")
	if got != "Implementation. Details follow here." {
		t.Errorf("got %q", got)
	}
}
