// internal/document/splitter.go
package document

// Split cuts a document's text into ordered segments of at most size runes,
// with the trailing overlap runes of each segment repeated at the start of
// the next so context is not lost at boundaries. Rune counts keep multibyte
// text intact. overlap must be smaller than size; the config layer enforces
// that before ingestion runs.
func Split(doc Document, size, overlap int) []Segment {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []Segment{{Doc: doc.Name, Index: 0, Text: doc.Text}}
	}

	step := size - overlap
	if step <= 0 {
		step = 1
	}

	var segments []Segment
	for i := 0; i < len(runes); i += step {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, Segment{
			Doc:   doc.Name,
			Index: len(segments),
			Text:  string(runes[i:end]),
		})
	}
	return segments
}
