package camp

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	queryField    = "S1"
	checkAllField = "checkall"
	submitField   = "B1"
)

// predictForm is the prediction form as a browser would submit it after
// the sequence field was filled in, "check all" was ticked and the
// submit button was pressed.
type predictForm struct {
	Action string
	Method string
	Values url.Values
}

func elementNotFound(what string) error {
	return errors.Wrap(ErrElementNotFound, what)
}

func findPredictForm(doc *goquery.Document, query string) (predictForm, error) {
	queryInput := doc.Find("[name=" + queryField + "]").First()
	if queryInput.Length() == 0 {
		return predictForm{}, elementNotFound("sequence field " + queryField)
	}
	form := queryInput.Closest("form")
	if form.Length() == 0 {
		return predictForm{}, elementNotFound("form enclosing " + queryField)
	}
	if form.Find("[name="+checkAllField+"]").Length() == 0 {
		return predictForm{}, elementNotFound("classifier toggle " + checkAllField)
	}
	submit := form.Find("[name=" + submitField + "]").First()
	if submit.Length() == 0 {
		return predictForm{}, elementNotFound("submit control " + submitField)
	}

	values := url.Values{}
	form.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		if name == "" {
			return
		}
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}

		switch goquery.NodeName(s) {
		case "textarea":
			values.Add(name, s.Text())
		case "select":
			option := s.Find("option[selected]").First()
			if option.Length() == 0 {
				option = s.Find("option").First()
			}
			if option.Length() > 0 {
				values.Add(name, option.AttrOr("value", option.Text()))
			}
		case "input":
			switch strings.ToLower(s.AttrOr("type", "text")) {
			case "checkbox":
				// ticking "check all" ticks every classifier
				values.Add(name, s.AttrOr("value", "on"))
			case "radio":
				if _, checked := s.Attr("checked"); checked {
					values.Add(name, s.AttrOr("value", "on"))
				}
			case "submit", "button", "image", "reset", "file":
			default:
				values.Add(name, s.AttrOr("value", ""))
			}
		}
	})

	values.Set(queryField, query)
	values.Set(submitField, submit.AttrOr("value", "Submit"))

	return predictForm{
		Action: form.AttrOr("action", ""),
		Method: strings.ToUpper(form.AttrOr("method", "GET")),
		Values: values,
	}, nil
}
