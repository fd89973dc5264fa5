package prediction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carelens-ai/platform/pkg/common/logger"
	"github.com/carelens-ai/platform/pkg/ml/linear"
	"github.com/carelens-ai/platform/pkg/ml/preprocess"
)

type preprocessingArtifact struct {
	Scaler preprocess.StandardScaler `json:"scaler"`
}

type riskModelsArtifact struct {
	Models         map[string]linear.Weights `json:"models"`
	FeatureColumns []string                  `json:"feature_columns"`
}

// Bundle pairs the fitted preprocessing transform with the trained binary
// classifiers. Loaded once at startup, injected by reference and treated as
// read-only for the process lifetime; changing artifacts on disk requires a
// restart.
//
// The scaler parameters are positional and assumed to match the column order
// in feature_columns. A reordered artifact produces silently wrong
// predictions; only length mismatches are detectable at load time.
type Bundle struct {
	scaler         preprocess.StandardScaler
	classifiers    map[string]linear.Weights
	featureColumns []string
	loaded         bool
	loadErr        error
}

// Load reads both model artifacts. It never fails the process: a missing or
// corrupt artifact logs a warning and yields an unloaded bundle, and every
// prediction then fails with ErrNotLoaded. This keeps pages that do not need
// prediction serviceable.
func Load(preprocessingPath, modelsPath string) *Bundle {
	scaler, err := loadPreprocessing(preprocessingPath)
	if err != nil {
		logger.Log.WithError(err).WithField("artifact", preprocessingPath).
			Warn("Preprocessing artifact unavailable, predictions disabled")
		return &Bundle{loadErr: err}
	}

	artifact, err := loadRiskModels(modelsPath)
	if err != nil {
		logger.Log.WithError(err).WithField("artifact", modelsPath).
			Warn("Risk models artifact unavailable, predictions disabled")
		return &Bundle{loadErr: err}
	}

	if len(scaler.Mean) != len(artifact.FeatureColumns) {
		err := fmt.Errorf("%w: scaler fitted for %d columns, artifact declares %d",
			ErrArtifactCorrupt, len(scaler.Mean), len(artifact.FeatureColumns))
		logger.Log.WithError(err).Warn("Artifact schema mismatch, predictions disabled")
		return &Bundle{loadErr: err}
	}
	for name, weights := range artifact.Models {
		if len(weights.Coefficients) != len(artifact.FeatureColumns) {
			err := fmt.Errorf("%w: classifier %s has %d coefficients, artifact declares %d columns",
				ErrArtifactCorrupt, name, len(weights.Coefficients), len(artifact.FeatureColumns))
			logger.Log.WithError(err).Warn("Artifact schema mismatch, predictions disabled")
			return &Bundle{loadErr: err}
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"classifiers":     len(artifact.Models),
		"feature_columns": len(artifact.FeatureColumns),
	}).Info("Model bundle loaded")

	return &Bundle{
		scaler:         scaler,
		classifiers:    artifact.Models,
		featureColumns: artifact.FeatureColumns,
		loaded:         true,
	}
}

func loadPreprocessing(path string) (preprocess.StandardScaler, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return preprocess.StandardScaler{}, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return preprocess.StandardScaler{}, err
	}
	var artifact preprocessingArtifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return preprocess.StandardScaler{}, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if len(artifact.Scaler.Mean) == 0 || len(artifact.Scaler.Mean) != len(artifact.Scaler.Scale) {
		return preprocess.StandardScaler{}, fmt.Errorf("%w: scaler parameters incomplete", ErrArtifactCorrupt)
	}
	return artifact.Scaler, nil
}

func loadRiskModels(path string) (riskModelsArtifact, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return riskModelsArtifact{}, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return riskModelsArtifact{}, err
	}
	var artifact riskModelsArtifact
	if err := json.Unmarshal(content, &artifact); err != nil {
		return riskModelsArtifact{}, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if len(artifact.Models) == 0 || len(artifact.FeatureColumns) == 0 {
		return riskModelsArtifact{}, fmt.Errorf("%w: models or feature_columns missing", ErrArtifactCorrupt)
	}
	return artifact, nil
}

func (b *Bundle) Loaded() bool {
	return b != nil && b.loaded
}

// LoadErr reports why the bundle is unloaded, nil when loaded.
func (b *Bundle) LoadErr() error {
	if b == nil {
		return ErrNotLoaded
	}
	return b.loadErr
}

// FeatureColumns returns a copy of the declared column order.
func (b *Bundle) FeatureColumns() []string {
	if b == nil {
		return nil
	}
	columns := make([]string, len(b.featureColumns))
	copy(columns, b.featureColumns)
	return columns
}

// ClassifierNames lists the bundled model names, unordered.
func (b *Bundle) ClassifierNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.classifiers))
	for name := range b.classifiers {
		names = append(names, name)
	}
	return names
}
