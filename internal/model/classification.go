package model

// Classification is the classifier adapter's output for one text:
// the winning label, its probability, and the full distribution over
// every label the model supports.
//
// Invariants (enforced by the detector, relied upon everywhere else):
// Distribution values are non-negative and sum to 1 within 1e-6,
// Label is the argmax key, and Confidence == Distribution[Label].
type Classification struct {
	Label        string
	Confidence   float64
	Distribution map[string]float64
}
