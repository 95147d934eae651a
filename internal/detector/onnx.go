package detector

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxSession wraps a DynamicAdvancedSession for transformer
// sequence-classification models. Unlike embedding models, the output head
// is 2D: one logit per class.
type onnxSession struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
	// numLabels is the class count from model metadata, or 0 when the
	// model declares a dynamic class dimension.
	numLabels int64
	// hasTokenTypes is true for BERT-style models; RoBERTa derivatives
	// (including the distilroberta emotion heads) omit token_type_ids.
	hasTokenTypes bool
}

// newONNXSession loads the ONNX model and creates an inference session.
// It validates the model's input/output tensor names and shapes.
func newONNXSession(modelPath string) (*onnxSession, error) {
	// The ONNX Runtime shared library ships alongside the model files in
	// the models/ directory.
	modelDir := filepath.Dir(modelPath)
	libPath := filepath.Join(modelDir, "libonnxruntime.so")

	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	inputNames, hasTokenTypes, err := resolveInputs(inputs)
	if err != nil {
		return nil, err
	}

	// Validate output — expect a single logits tensor with shape
	// [batch, num_labels].
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	outputName := outputs[0].Name
	dims := outputs[0].Dimensions
	if len(dims) != 2 {
		return nil, fmt.Errorf("onnx: expected 2D logits tensor, got %v", dims)
	}
	numLabels := dims[1]
	if numLabels < 0 {
		numLabels = 0 // dynamic; checked against the label file at runtime
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		[]string{outputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &onnxSession{
		session:       session,
		inputNames:    inputNames,
		outputName:    outputName,
		numLabels:     numLabels,
		hasTokenTypes: hasTokenTypes,
	}, nil
}

// resolveInputs checks that the model has the expected transformer inputs.
// input_ids and attention_mask are required; token_type_ids is accepted
// when present but not demanded, so both BERT- and RoBERTa-style heads load.
func resolveInputs(inputs []ort.InputOutputInfo) ([]string, bool, error) {
	nameSet := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		nameSet[inp.Name] = true
	}
	for _, name := range []string{"input_ids", "attention_mask"} {
		if !nameSet[name] {
			return nil, false, fmt.Errorf("onnx: model missing required input %q", name)
		}
	}
	names := []string{"input_ids", "attention_mask"}
	hasTokenTypes := nameSet["token_type_ids"]
	if hasTokenTypes {
		names = append(names, "token_type_ids")
	}
	return names, hasTokenTypes, nil
}

// infer runs a single-text inference call. inputIDs and attentionMask are
// [seqLen] slices; numLabels is the expected class count, used to shape
// the output tensor when the model declares a dynamic class dimension.
// Returns the logits row as a float32 slice of length numLabels.
func (s *onnxSession) infer(inputIDs, attentionMask []int64, seqLen, numLabels int64) ([]float32, error) {
	shape := ort.NewShape(1, seqLen)

	tIDs, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input_ids tensor: %w", err)
	}
	defer tIDs.Destroy()

	tMask, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create attention_mask tensor: %w", err)
	}
	defer tMask.Destroy()

	inputs := []ort.Value{tIDs, tMask}
	if s.hasTokenTypes {
		tTypes, err := ort.NewTensor(shape, make([]int64, seqLen))
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create token_type_ids tensor: %w", err)
		}
		defer tTypes.Destroy()
		inputs = append(inputs, tTypes)
	}

	outShape := ort.NewShape(1, numLabels)
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := s.session.Run(inputs, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	result := make([]float32, len(src))
	copy(result, src)
	return result, nil
}

// close releases the ONNX session resources.
func (s *onnxSession) close() error {
	return s.session.Destroy()
}
