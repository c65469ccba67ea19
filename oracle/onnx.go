package oracle

import (
	"fmt"
	"math"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"alphatree/game"
)

// Encoder translates between a game and an ONNX policy+value network: it
// featurizes states into the network's flat input layout and maps moves to
// policy-head indices.
type Encoder interface {
	// Encode returns the network input for one state, InputSize floats.
	Encode(state game.State) []float32
	// InputSize is the flattened length of one position's input tensor.
	InputSize() int
	// InputShape is the per-position tensor shape, without the batch
	// dimension (e.g. [14, 11, 11]).
	InputShape() []int64
	// PolicySize is the width of the policy head.
	PolicySize() int
	// MoveIndex maps a legal move to its policy-head index.
	MoveIndex(move game.Move) int
}

// OnnxOracle evaluates positions with an ONNX Runtime session exporting
// "input" -> "policy", "value" heads. Policy logits are masked to the legal
// moves and softmaxed; the value head is taken as-is (side-to-move
// perspective, as the engine expects).
type OnnxOracle struct {
	session *ort.DynamicAdvancedSession
	enc     Encoder
}

var ortInitOnce sync.Once
var ortInitErr error

func NewOnnxOracle(modelPath string, enc Encoder) (*OnnxOracle, error) {
	if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
	}
	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to init ort: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()

	// Workers already saturate the CPU; keep the runtime single-threaded.
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input"}, []string{"policy", "value"}, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &OnnxOracle{session: session, enc: enc}, nil
}

func (o *OnnxOracle) Close() error {
	return o.session.Destroy()
}

func (o *OnnxOracle) Evaluate(state game.State, actions []game.Move) (Evaluation, error) {
	evals, err := o.EvaluateBatch([]Request{{State: state, Actions: actions}})
	if err != nil {
		return Evaluation{}, err
	}
	return evals[0], nil
}

func (o *OnnxOracle) EvaluateBatch(batch []Request) ([]Evaluation, error) {
	n := len(batch)
	inputSize := o.enc.InputSize()
	policySize := o.enc.PolicySize()

	batchInput := make([]float32, 0, n*inputSize)
	for _, req := range batch {
		batchInput = append(batchInput, o.enc.Encode(req.State)...)
	}

	inputShape := append([]int64{int64(n)}, o.enc.InputShape()...)
	inputTensor, err := ort.NewTensor(ort.NewShape(inputShape...), batchInput)
	if err != nil {
		return nil, err
	}
	defer inputTensor.Destroy()

	policyTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(n), int64(policySize)))
	if err != nil {
		return nil, err
	}
	defer policyTensor.Destroy()

	valueTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(n), 1))
	if err != nil {
		return nil, err
	}
	defer valueTensor.Destroy()

	err = o.session.Run([]ort.Value{inputTensor}, []ort.Value{policyTensor, valueTensor})
	if err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	policyData := policyTensor.GetData()
	valueData := valueTensor.GetData()

	evals := make([]Evaluation, n)
	for i, req := range batch {
		logits := policyData[i*policySize : (i+1)*policySize]
		evals[i] = Evaluation{
			Prior: legalSoftmax(logits, req.Actions, o.enc),
			Value: valueData[i],
		}
	}
	return evals, nil
}

// legalSoftmax normalizes the policy logits over the legal moves only.
func legalSoftmax(logits []float32, actions []game.Move, enc Encoder) []float32 {
	prior := make([]float32, len(actions))

	maxV := float32(math.Inf(-1))
	for _, move := range actions {
		if l := logits[enc.MoveIndex(move)]; l > maxV {
			maxV = l
		}
	}

	sum := float32(0)
	for i, move := range actions {
		e := float32(math.Exp(float64(logits[enc.MoveIndex(move)] - maxV)))
		prior[i] = e
		sum += e
	}
	if sum > 0 {
		inv := 1 / sum
		for i := range prior {
			prior[i] *= inv
		}
	}
	return prior
}
