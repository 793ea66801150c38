package camp

// Classifier is one of the four prediction methods CAMP runs. The
// declaration order is the order their result tables appear on the page.
type Classifier int

const (
	SVM Classifier = iota
	RF
	ANN
	DA
)

var Classifiers = [...]Classifier{SVM, RF, ANN, DA}

func (c Classifier) String() string {
	switch c {
	case SVM:
		return "SVM"
	case RF:
		return "RF"
	case ANN:
		return "ANN"
	case DA:
		return "DA"
	}
	return "unknown"
}

// LongName is the name CAMP uses in the heading of the classifier's table.
func (c Classifier) LongName() string {
	switch c {
	case SVM:
		return "Support Vector Machine"
	case RF:
		return "Random Forest"
	case ANN:
		return "Artificial Neural Network"
	case DA:
		return "Discriminant Analysis"
	}
	return ""
}

// HasProbability is false only for ANN, which reports a class alone.
func (c Classifier) HasProbability() bool {
	return c != ANN
}

func longNames() []string {
	names := make([]string, len(Classifiers))
	for i, c := range Classifiers {
		names[i] = c.LongName()
	}
	return names
}
