package nlp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/aoidb/aoi/domain/fusion"
)

// nerSingleton holds the process-wide hugot session and token
// classification pipeline. ONNX Runtime allows one session per process, and
// inference is serialized through mu.
var nerSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
	modelDir string
	mu       sync.Mutex
	ready    bool
}

// HugotRecognizer runs a token classification model (for example
// dslim/bert-base-NER exported to ONNX) through hugot.
type HugotRecognizer struct{}

// NewHugotRecognizer loads the model found in modelDir, or in its first
// subdirectory containing tokenizer.json. The session is created once per
// process; later calls reuse it.
func NewHugotRecognizer(modelDir string) (HugotRecognizer, error) {
	nerSingleton.mu.Lock()
	defer nerSingleton.mu.Unlock()

	if nerSingleton.ready {
		if nerSingleton.modelDir != modelDir {
			return HugotRecognizer{}, fmt.Errorf("hugot recognizer already loaded from %s", nerSingleton.modelDir)
		}
		return HugotRecognizer{}, nil
	}

	modelPath, err := resolveModelPath(modelDir)
	if err != nil {
		return HugotRecognizer{}, err
	}

	session, err := newHugotSession()
	if err != nil {
		return HugotRecognizer{}, fmt.Errorf("create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "aoi-ner",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return HugotRecognizer{}, fmt.Errorf("create token classification pipeline: %w", err)
	}

	nerSingleton.session = session
	nerSingleton.pipeline = pipeline
	nerSingleton.modelDir = modelDir
	nerSingleton.ready = true
	return HugotRecognizer{}, nil
}

// resolveModelPath returns modelDir itself when it holds tokenizer.json,
// otherwise its first subdirectory that does.
func resolveModelPath(modelDir string) (string, error) {
	if modelDir == "" {
		return "", fmt.Errorf("no NER model directory configured")
	}
	if _, err := os.Stat(filepath.Join(modelDir, "tokenizer.json")); err == nil {
		return modelDir, nil
	}
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", modelDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(modelDir, entry.Name())
		if _, err := os.Stat(filepath.Join(candidate, "tokenizer.json")); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model with tokenizer.json found in %s", modelDir)
}

// Recognize tags text with the loaded model.
func (HugotRecognizer) Recognize(ctx context.Context, text string) ([]fusion.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nerSingleton.mu.Lock()
	defer nerSingleton.mu.Unlock()

	if !nerSingleton.ready {
		return nil, fmt.Errorf("hugot recognizer is not loaded")
	}

	output, err := nerSingleton.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("run token classification: %w", err)
	}
	if len(output.Entities) == 0 {
		return nil, nil
	}

	out := make([]fusion.Recognition, 0, len(output.Entities[0]))
	for _, e := range output.Entities[0] {
		out = append(out, fusion.Recognition{
			Label: e.Entity,
			Text:  e.Word,
			Score: float64(e.Score),
		})
	}
	return out, nil
}
