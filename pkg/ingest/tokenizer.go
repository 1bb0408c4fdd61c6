package ingest

import (
	"strings"
)

const delimiterSampleSize = 500

// DetectDelimiter picks the field separator from the first line of text.
// Only the first line (capped at 500 characters) is inspected and raw occurrences
// are counted, quotes included. A semicolon or tab must strictly outnumber
// both other candidates; otherwise the comma wins.
func DetectDelimiter(text string) (delimiter rune) {
	sample := text
	if idx := strings.IndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}
	if runes := []rune(sample); len(runes) > delimiterSampleSize {
		sample = string(runes[:delimiterSampleSize])
	}

	commas := strings.Count(sample, ",")
	semicolons := strings.Count(sample, ";")
	tabs := strings.Count(sample, "\t")

	delimiter = ','
	switch {
	case semicolons > commas && semicolons > tabs:
		delimiter = ';'
	case tabs > commas && tabs > semicolons:
		delimiter = '\t'
	}

	return delimiter
}

// Tokenize splits text into rows of trimmed fields using the detected delimiter.
//
// A quote switches into quoted mode wherever it appears; inside quoted mode a
// doubled quote yields one literal quote and a lone quote leaves the mode. An
// unterminated quote swallows the rest of the input into the current field.
// Rows that hold a single empty field are blank lines and are dropped.
func Tokenize(text string) (rows [][]string) {
	delimiter := DetectDelimiter(text)
	rows = make([][]string, 0)

	var field strings.Builder
	row := make([]string, 0)
	inQuotes := false

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		if len(row) > 1 || row[0] != "" {
			rows = append(rows, row)
		}
		row = make([]string, 0)
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		char := runes[i]

		if inQuotes {
			if char != '"' {
				field.WriteRune(char)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
			continue
		}

		switch char {
		case '"':
			inQuotes = true
		case delimiter:
			endField()
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteRune(char)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}
