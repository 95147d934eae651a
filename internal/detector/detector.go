// Package detector wraps a local pretrained emotion classification model.
// It turns free-form text into a label, a confidence, and the full
// label→probability distribution. It never fabricates a result: when the
// underlying model fails, the error propagates and no label is produced.
package detector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rajstories/EmotionLLM/internal/model"
)

// ErrUnavailable indicates the underlying model could not produce a
// classification. Callers must not write a journal row for the request.
var ErrUnavailable = errors.New("classification unavailable")

// ErrEmptyText indicates blank input reached Predict. The pipeline rejects
// blank input before classification; this is a second line of defense.
var ErrEmptyText = errors.New("empty input text")

// distributionTolerance is the allowed deviation of the probability mass
// sum from 1.
const distributionTolerance = 1e-6

// Detector classifies text into an emotion distribution.
type Detector interface {
	Predict(ctx context.Context, text string) (model.Classification, error)
	Close() error
}

// ONNXDetector runs a local ONNX sequence-classification model
// (a DistilBERT/DistilRoBERTa-style emotion head): tokenize → inference →
// softmax over the model's label set.
type ONNXDetector struct {
	session *onnxSession
	tok     *tokenizer
	labels  []string
}

// New creates an ONNXDetector by loading the ONNX model, WordPiece
// vocabulary, and label file. maxSeqLen caps tokenized sequence length.
func New(modelPath, vocabPath, labelPath string, maxSeqLen int) (*ONNXDetector, error) {
	sess, err := newONNXSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	tok, err := newTokenizer(vocabPath, maxSeqLen)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("detector: %w", err)
	}

	labels, err := loadLabels(labelPath)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("detector: %w", err)
	}

	if sess.numLabels > 0 && int(sess.numLabels) != len(labels) {
		sess.close()
		return nil, fmt.Errorf("detector: model has %d output classes, label file has %d",
			sess.numLabels, len(labels))
	}

	return &ONNXDetector{session: sess, tok: tok, labels: labels}, nil
}

// Labels returns the emotion vocabulary the model can emit, in class order.
func (d *ONNXDetector) Labels() []string {
	return d.labels
}

// Predict classifies a single text. The returned distribution has one
// entry per model label, values sum to 1 within tolerance, and
// Label/Confidence describe the argmax entry.
func (d *ONNXDetector) Predict(ctx context.Context, text string) (model.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return model.Classification{}, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return model.Classification{}, err
	}

	seq := d.tok.tokenize(text)

	logits, err := d.session.infer(seq.inputIDs, seq.attentionMask, seq.seqLen, int64(len(d.labels)))
	if err != nil {
		return model.Classification{}, fmt.Errorf("detector: %w: %w", ErrUnavailable, err)
	}
	if len(logits) != len(d.labels) {
		return model.Classification{}, fmt.Errorf("detector: %w: model returned %d logits for %d labels",
			ErrUnavailable, len(logits), len(d.labels))
	}

	return fromScores(d.labels, softmax(logits))
}

// Close releases ONNX Runtime resources.
func (d *ONNXDetector) Close() error {
	if d.session != nil {
		return d.session.close()
	}
	return nil
}

// fromScores builds a Classification from per-class probabilities, taking
// the argmax as the label. Ties resolve to the lowest class index so the
// result is deterministic.
func fromScores(labels []string, probs []float64) (model.Classification, error) {
	dist := make(map[string]float64, len(labels))
	best := 0
	sum := 0.0
	for i, p := range probs {
		dist[labels[i]] = p
		sum += p
		if p > probs[best] {
			best = i
		}
	}
	if math.Abs(sum-1) > distributionTolerance {
		return model.Classification{}, fmt.Errorf("detector: %w: probabilities sum to %v", ErrUnavailable, sum)
	}

	return model.Classification{
		Label:        labels[best],
		Confidence:   probs[best],
		Distribution: dist,
	}, nil
}

// softmax converts logits to a probability distribution. Shifts by the max
// logit for numerical stability.
func softmax(logits []float32) []float64 {
	max := logits[0]
	for _, l := range logits[1:] {
		if l > max {
			max = l
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		e := math.Exp(float64(l - max))
		probs[i] = e
		sum += e
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
