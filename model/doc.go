// Package model provides the data model shared across the layout
// reconstruction pipeline: [Fragment], the raw unit of geometric evidence
// from the glyph-extraction backend; [Line], the visual row assembled from
// fragments; and the [Block] sequence that the HTML renderer consumes.
//
// # Fragments and pages
//
// A [Fragment] is a positioned text run: text, an (x, y) origin, a font
// size, and an optional advance width. An [ExtractedDocument] is just a bag
// of [Page] values, each an ordered list of Fragments — no paragraphs,
// columns, or headings. Recovering that structure is the rest of the
// pipeline's job.
//
// # Lines
//
// A [Line] is produced by bucketing a page's Fragments by Y (see the
// assemble package). Lines carry enough geometry — x, y, font size,
// estimated width, and the Fragments that produced them — for every later
// stage (artifact filtering, column detection, footnote segregation, title
// detection, classification, paragraph merging, table reconstruction,
// footnote linking) to work from the same representation.
//
// # Document profile
//
// [DocumentProfile] holds the small amount of cross-page, read-only state
// (body font size, running labels, page-number offsets, page extents) that
// several stages need; everything else is computed per-page.
//
// # Blocks
//
// [Block] is the tagged union the HTML renderer walks: Title, Heading,
// Paragraph, BulletList, OrderedList, CodeBlock, Table, FootnoteSection.
package model
