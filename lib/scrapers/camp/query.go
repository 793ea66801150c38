package camp

import (
	"autocamp/lib/fasta"
	"strings"
)

// FormatQuery renders records as the multi-sequence FASTA block the
// prediction form expects, each record terminated by a newline.
func FormatQuery(records []fasta.Record) string {
	var query strings.Builder
	for _, r := range records {
		query.WriteString(">")
		query.WriteString(r.ID)
		query.WriteString("\n")
		query.WriteString(r.Residues)
		query.WriteString("\n")
	}
	return query.String()
}
