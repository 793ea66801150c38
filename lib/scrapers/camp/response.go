package camp

import (
	"autocamp/lib/htmlutil"
	"bytes"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// ReadResponse returns the text of a saved result page. HTML pages are
// reduced to their text the same way Predict does, anything else is
// returned as is.
func ReadResponse(r io.Reader) (string, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !looksLikeHtml(contents) {
		return string(contents), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(contents))
	if err != nil {
		return "", errors.Wrap(ErrMalformedResponse, err.Error())
	}
	return htmlutil.GetText(doc.Get(0)), nil
}

func looksLikeHtml(contents []byte) bool {
	trimmed := bytes.TrimLeft(contents, " \t\r\n\ufeff")
	return bytes.HasPrefix(trimmed, []byte("<"))
}
