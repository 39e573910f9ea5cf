package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for fixture files on the local file
// system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based fixture loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "fixture-loader").Logger(),
	}
}

// Load reads and parses a JSON fixture file.
func (l *fileLoader) Load(ctx context.Context, path string) (*Fixture, error) {
	l.logger.Info().Str("file", path).Msg("loading fixture file")

	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read fixture file")
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	fixture, err := parseFixture(data, path)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("categories", len(fixture.Categories)).
		Msg("fixture file loaded")

	return fixture, nil
}

// parseFixture decodes fixture JSON and rejects empty fixtures.
func parseFixture(data []byte, source string) (*Fixture, error) {
	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", source, err)
	}
	if len(fixture.Categories) == 0 {
		return nil, fmt.Errorf("fixture %s contains no categories", source)
	}
	return &fixture, nil
}
