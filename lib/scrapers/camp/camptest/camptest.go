// Package camptest serves fake CAMP pages for tests.
package camptest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Scored struct {
	Class       string
	Probability string
}

// Row is what CAMP predicts for one submitted sequence.
type Row struct {
	ID  string
	SVM Scored
	RF  Scored
	ANN string
	DA  Scored
}

// FormPage mirrors the markup of the CAMP prediction form.
const FormPage = `<!DOCTYPE html>
<html>
<head>
<title>CAMP: Predict Antimicrobial Peptides</title>
<script type="text/javascript">
function checkAll(form) {
  for (var i = 0; i < form.algo.length; i++) { form.algo[i].checked = form.checkall.checked; }
}
</script>
</head>
<body>
<form name="predict" method="post" action="result.php">
<input type="hidden" name="mode" value="seq">
<textarea name="S1" rows="10" cols="60">Paste sequences here</textarea>
<input type="checkbox" name="algo" value="svm"> SVM
<input type="checkbox" name="algo" value="rf"> RF
<input type="checkbox" name="algo" value="ann"> ANN
<input type="checkbox" name="algo" value="da"> DA
<input type="checkbox" name="checkall" onclick="checkAll(this.form)"> All
<input type="radio" name="format" value="html" checked> HTML
<input type="radio" name="format" value="text"> Text
<input type="submit" name="B1" value="Submit">
<input type="reset" name="B2" value="Reset">
</form>
<p>&copy; Biomedical Informatics Centre, NIRRH</p>
</body>
</html>`

func scoredTable(heading string, rows []Row, pick func(Row) Scored) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Results with %s classifier</h3>\n", heading)
	b.WriteString("<table>\n<tr>\n<th>Class</th>\n<th>AMP Probability</th>\n<th>Rank</th>\n</tr>\n")
	for _, r := range rows {
		s := pick(r)
		fmt.Fprintf(
			&b,
			"<tr>\n<td>%s</td>\n<td>%s<sup>*</sup></td>\n</tr>\n",
			html.EscapeString(s.Class), html.EscapeString(s.Probability),
		)
	}
	b.WriteString("</table>\n")
	return b.String()
}

// ResultPage renders the page CAMP answers a submission with.
func ResultPage(rows []Row) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<title>CAMP: Prediction results</title>\n</head>\n<body>\n")
	b.WriteString(scoredTable("Support Vector Machine (SVM)", rows, func(r Row) Scored { return r.SVM }))
	b.WriteString(scoredTable("Random Forests", rows, func(r Row) Scored { return r.RF }))

	b.WriteString("<h3>Results with Artificial Neural Network (ANN) classifier</h3>\n")
	b.WriteString("<table>\n<tr>\n<th>Seq. ID.</th>\n<th>Class</th>\n</tr>\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr>\n<td>%s</td>\n<td>%s</td>\n</tr>\n", html.EscapeString(r.ID), html.EscapeString(r.ANN))
	}
	b.WriteString("</table>\n")

	b.WriteString(scoredTable("Discriminant Analysis", rows, func(r Row) Scored { return r.DA }))
	b.WriteString("<p>&copy; Biomedical Informatics Centre, NIRRH</p>\n</body>\n</html>\n")
	return b.String()
}

// ResultText is the plain text a browser would show for ResultPage,
// reduced to what the parser looks at.
func ResultText(rows []Row) string {
	var b strings.Builder
	b.WriteString("CAMP: Prediction results\n")
	scored := func(heading string, pick func(Row) Scored) {
		fmt.Fprintf(&b, "Results with %s classifier\nClass\nAMP Probability\nRank\n", heading)
		for _, r := range rows {
			s := pick(r)
			fmt.Fprintf(&b, "%s\n%s*\n", s.Class, s.Probability)
		}
	}
	scored("Support Vector Machine (SVM)", func(r Row) Scored { return r.SVM })
	scored("Random Forests", func(r Row) Scored { return r.RF })
	b.WriteString("Results with Artificial Neural Network (ANN) classifier\nSeq. ID.\nClass\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\n%s\n", r.ID, r.ANN)
	}
	scored("Discriminant Analysis", func(r Row) Scored { return r.DA })
	b.WriteString("© Biomedical Informatics Centre, NIRRH\n")
	return b.String()
}

// Server is a fake CAMP site. The prediction form is served at
// /predict/ and submissions are answered with ResultPage(Rows).
type Server struct {
	*httptest.Server

	Rows     []Row
	FormHTML string
	// Delay is slept before answering a submission.
	Delay time.Duration

	mu          sync.Mutex
	submissions []url.Values
}

func NewServer(rows []Row) *Server {
	s := &Server{Rows: rows, FormHTML: FormPage}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(s.FormHTML))
	})
	mux.HandleFunc("/predict/result.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.submissions = append(s.submissions, r.PostForm)
		s.mu.Unlock()

		if s.Delay > 0 {
			select {
			case <-time.After(s.Delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(ResultPage(s.Rows)))
	})
	s.Server = httptest.NewServer(mux)
	return s
}

// Submissions returns the form values of every submission received.
func (s *Server) Submissions() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.submissions...)
}
