package words

import "unicode/utf8"

// Window cuts a context window of roughly width runes around the byte span
// [start, end) of text and returns the three display segments. The window is
// centered on the match; when the match sits near one edge of the text, the
// unused budget on that side is handed to the other side so the window stays
// close to full width.
func Window(text string, start, end, width int) (before, match, after string) {
	r := []rune(text)
	rStart := utf8.RuneCountInString(text[:start])
	rEnd := rStart + utf8.RuneCountInString(text[start:end])
	hitLen := rEnd - rStart

	printStart := rStart - width/2 + hitLen/2 + hitLen%2
	if printStart < 0 {
		printStart = 0
	}
	printEnd := rEnd + width/2 - hitLen/2
	if printEnd > len(r) {
		printEnd = len(r)
	}

	startDiff := rStart - printStart
	endDiff := printEnd - rEnd
	printSum := startDiff + endDiff + hitLen
	if endDiff < startDiff && printSum < width {
		printStart -= width - printSum
		if printStart < 0 {
			printStart = 0
		}
	}
	if endDiff > startDiff && printSum < width {
		printEnd += width - printSum
		if printEnd > len(r) {
			printEnd = len(r)
		}
	}

	return string(r[printStart:rStart]), string(r[rStart:rEnd]), string(r[rEnd:printEnd])
}
