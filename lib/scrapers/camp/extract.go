package camp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Prediction is one row of a classifier's result table. Label is only
// set for ANN, whose table reports the sequence label next to the class.
type Prediction struct {
	Label          string
	Class          string
	Probability    string
	HasProbability bool
}

// Results holds each classifier's predictions, one per submitted
// sequence in submission order.
type Results struct {
	SVM []Prediction
	RF  []Prediction
	ANN []Prediction
	DA  []Prediction
}

func (r Results) Get(c Classifier) []Prediction {
	switch c {
	case SVM:
		return r.SVM
	case RF:
		return r.RF
	case ANN:
		return r.ANN
	case DA:
		return r.DA
	}
	return nil
}

func (r *Results) set(c Classifier, p []Prediction) {
	switch c {
	case SVM:
		r.SVM = p
	case RF:
		r.RF = p
	case ANN:
		r.ANN = p
	case DA:
		r.DA = p
	}
}

// Extract segments the response text and parses the predictions for n
// submitted sequences out of every section.
func Extract(text string, n int) (Results, error) {
	segments, err := Segment(text)
	if err != nil {
		return Results{}, err
	}
	return ExtractSegments(segments, n)
}

func ExtractSegments(segments Segments, n int) (Results, error) {
	var out Results
	for _, c := range Classifiers {
		var predictions []Prediction
		var err error
		if c.HasProbability() {
			predictions, err = extractScored(segments[c], n)
		} else {
			predictions, err = extractClassOnly(segments[c], n)
		}
		if err != nil {
			return Results{}, err
		}
		out.set(c, predictions)
	}
	return out, nil
}

// tableBody returns the text between the first and the second occurrence
// of header, or everything after the first when there is no second.
func tableBody(s Section, header string) (string, error) {
	parts := strings.SplitN(s.Text, header, 3)
	if len(parts) < 2 {
		return "", malformed("%s section has no %q header", s.Classifier, header)
	}
	return parts[1], nil
}

func checkTokens(s Section, tokens []string, n int) error {
	if len(tokens)%2 != 0 {
		return malformed("%s section has an odd number of tokens (%d)", s.Classifier, len(tokens))
	}
	if len(tokens)/2 != n {
		return malformed("%s section has %d predictions, expected %d", s.Classifier, len(tokens)/2, n)
	}
	return nil
}

// trimLastRune drops the marker character CAMP renders after every probability.
func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func extractScored(s Section, n int) ([]Prediction, error) {
	if s.Classifier == DA {
		s.Text = strings.TrimRightFunc(s.Text, unicode.IsSpace)
	}
	body, err := tableBody(s, "Probability")
	if err != nil {
		return nil, err
	}

	// the first token closes the header row
	tokens := strings.Fields(body)
	if len(tokens) > 0 {
		tokens = tokens[1:]
	}
	err = checkTokens(s, tokens, n)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, 0, n)
	for i := 0; i < len(tokens); i += 2 {
		predictions = append(predictions, Prediction{
			Class:          tokens[i],
			Probability:    trimLastRune(tokens[i+1]),
			HasProbability: true,
		})
	}
	return predictions, nil
}

func extractClassOnly(s Section, n int) ([]Prediction, error) {
	body, err := tableBody(s, "Class")
	if err != nil {
		return nil, err
	}
	tokens := strings.Fields(body)
	err = checkTokens(s, tokens, n)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, 0, n)
	for i := 0; i < len(tokens); i += 2 {
		predictions = append(predictions, Prediction{
			Label: tokens[i],
			Class: tokens[i+1],
		})
	}
	return predictions, nil
}
