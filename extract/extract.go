// Package extract adapts the PDF parsing engine
// (core/contentstream/font/pages/graphicsstate/resolver/reader/text) to
// the pipeline's model.ExtractedDocument input: it opens a PDF, walks its
// pages, and converts positioned text runs and vector-graphics evidence
// into model.Fragment/model.RuleLine at the package boundary.
package extract

import (
	"math"

	"github.com/tsawler/pdf2html/core"
	"github.com/tsawler/pdf2html/graphicsstate"
	"github.com/tsawler/pdf2html/model"
	"github.com/tsawler/pdf2html/pages"
	"github.com/tsawler/pdf2html/pdferr"
	"github.com/tsawler/pdf2html/reader"
)

// Backend is the extraction trait: given a PDF path, yield the
// ExtractedDocument of positioned fragments per page.
type Backend interface {
	Extract(path string) (model.ExtractedDocument, error)
}

// PDFBackend is the concrete Backend implementation built on the engine's
// own reader.Reader and text.Extractor.
type PDFBackend struct{}

// NewPDFBackend constructs the default backend.
func NewPDFBackend() *PDFBackend { return &PDFBackend{} }

// Extract opens path, walks every page, and extracts positioned text
// fragments via the engine's content-stream text extractor, converting them
// to model.Fragment/model.Page at the package boundary.
func (b *PDFBackend) Extract(path string) (model.ExtractedDocument, error) {
	r, err := reader.Open(path)
	if err != nil {
		return model.ExtractedDocument{}, pdferr.New(pdferr.InputUnreadable, path, err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return model.ExtractedDocument{}, pdferr.New(pdferr.BackendFailed, path, err)
	}

	docPages := make([]model.Page, 0, count)
	for i := 0; i < count; i++ {
		page, err := r.GetPage(i)
		if err != nil {
			return model.ExtractedDocument{}, pdferr.New(pdferr.BackendFailed, path, err)
		}
		width, err := page.Width()
		if err != nil {
			return model.ExtractedDocument{}, pdferr.New(pdferr.MalformedExtraction, path, err)
		}
		height, err := page.Height()
		if err != nil {
			return model.ExtractedDocument{}, pdferr.New(pdferr.MalformedExtraction, path, err)
		}

		fragments, err := r.ExtractTextFragments(page)
		if err != nil {
			return model.ExtractedDocument{}, pdferr.New(pdferr.BackendFailed, path, err)
		}

		modelFragments := make([]model.Fragment, 0, len(fragments))
		for _, f := range fragments {
			if !isFinite(f.X) || !isFinite(f.Y) || !isFinite(f.FontSize) {
				continue
			}
			if f.Text == "" {
				continue
			}
			modelFragments = append(modelFragments, model.Fragment{
				Text:     f.Text,
				X:        f.X,
				Y:        f.Y,
				FontSize: f.FontSize,
				Width:    f.Width,
			})
		}

		docPages = append(docPages, model.Page{
			PageIndex: i,
			Width:     width,
			Height:    height,
			Fragments: modelFragments,
			Rules:     ruleLines(page),
		})
	}

	doc := model.ExtractedDocument{Pages: docPages}
	if len(doc.Pages) == 0 {
		return doc, pdferr.New(pdferr.MalformedExtraction, path, errNoPages)
	}
	return doc, nil
}

var errNoPages = pagesErr("extraction produced zero pages")

type pagesErr string

func (e pagesErr) Error() string { return string(e) }

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ruleLines extracts vector-graphics lines and filled rectangles from a
// page's content stream, for the table reconstructor's optional grid
// evidence. Failure here is non-fatal: a page without usable
// graphics state just gets no rule lines.
func ruleLines(page *pages.Page) []model.RuleLine {
	contents, err := page.Contents()
	if err != nil || contents == nil {
		return nil
	}
	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			continue
		}
		data = append(data, decoded...)
	}
	if len(data) == 0 {
		return nil
	}

	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(data); err != nil {
		return nil
	}
	var rules []model.RuleLine
	rules = append(rules, ge.ToModelLines()...)
	rules = append(rules, ge.ToModelRectangles()...)
	return rules
}
