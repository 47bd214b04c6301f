package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/backends"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotEncoder runs an ONNX export of the model in-process. The selected
// output must already hold the classification-token embedding, one vector
// per sequence. Token-level outputs are refused because the feature
// extraction pipeline mean-pools them.
type HugotEncoder struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewHugotEncoder loads the model and limits tokenization to maxTokens.
// outputName picks the model output, empty means the first one.
func NewHugotEncoder(name, cacheDir, outputName string, maxTokens int) (*HugotEncoder, error) {
	modelPath, err := resolveHugotModel(name, cacheDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create inference session: %w", err)
	}

	cfg := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embed-" + filepath.Base(modelPath),
	}
	if outputName != "" {
		cfg.Options = append(cfg.Options, pipelines.WithOutputName(outputName))
	}

	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create pipeline: %w", err), session.Destroy())
	}

	if err := checkPooledOutput(pipeline.Output); err != nil {
		return nil, errors.Join(err, session.Destroy())
	}
	if err := limitTokens(pipeline.Model, maxTokens); err != nil {
		return nil, errors.Join(err, session.Destroy())
	}

	return &HugotEncoder{
		session:  session,
		pipeline: pipeline,
	}, nil
}

func (e *HugotEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, err
	}
	if len(out.Embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(out.Embeddings))
	}

	return out.Embeddings[0], nil
}

func (e *HugotEncoder) Close() error {
	return e.session.Destroy()
}

// checkPooledOutput accepts only (batch, hidden) outputs. A third axis means
// per-token states, which the pipeline would average instead of taking the
// classification token.
func checkPooledOutput(output backends.InputOutputInfo) error {
	if len(output.Dimensions) != 2 {
		return fmt.Errorf("model output %q has shape %s, expected (batch, hidden) holding the classification-token embedding; "+
			"export the model with a pooled output and select it with MODEL_OUTPUT_NAME", output.Name, output.Dimensions.String())
	}
	return nil
}

// limitTokens makes the tokenizer truncate at maxTokens. The model cannot
// attend past its position embeddings, so a larger limit is rejected.
func limitTokens(m *backends.Model, maxTokens int) error {
	if m.Tokenizer == nil {
		return fmt.Errorf("model %s has no tokenizer", m.Path)
	}
	if m.MaxPositionEmbeddings > 0 && maxTokens > m.MaxPositionEmbeddings {
		return fmt.Errorf("MODEL_MAX_TOKENS %d exceeds the model's %d position embeddings", maxTokens, m.MaxPositionEmbeddings)
	}
	m.Tokenizer.MaxAllowedTokens = maxTokens
	return nil
}

// resolveHugotModel returns a local model directory, downloading the model
// into cacheDir when neither name nor its cached copy exist on disk.
func resolveHugotModel(name, cacheDir string) (string, error) {
	if isDir(name) {
		return name, nil
	}

	cached := filepath.Join(cacheDir, strings.ReplaceAll(name, "/", "_"))
	if isDir(cached) {
		slog.Info("Using cached model", "path", cached)
		return cached, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create model cache dir: %w", err)
	}

	slog.Info("Downloading model", "model", name, "cache_dir", cacheDir)
	path, err := hugot.DownloadModel(name, cacheDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("download model: %w", err)
	}
	return path, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
