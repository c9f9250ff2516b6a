package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Fixtures serves documents from a directory and logs posts instead of sending
// them. It is used to run against a recorded device.
type Fixtures struct {
	dir    string
	logger *zap.Logger
}

// NewFixtures creates a fixture transport rooted at dir.
func NewFixtures(dir string, logger *zap.Logger) *Fixtures {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fixtures{dir: dir, logger: logger.Named("fixtures")}
}

// GetJSON reads one document file.
func (f *Fixtures) GetJSON(ctx context.Context, name string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(f.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", name, err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("fixture %s: invalid JSON", name)
	}
	return json.RawMessage(b), nil
}

// GetManyJSON reads document files concurrently.
func (f *Fixtures) GetManyJSON(ctx context.Context, names []string) ([]json.RawMessage, error) {
	return getMany(ctx, names, f.GetJSON)
}

// PostForm logs the form and echoes its fields back as the reply.
func (f *Fixtures) PostForm(ctx context.Context, endpoint string, form Form) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	echo := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		echo[field.Key] = field.Value
	}
	f.logger.Info("form not sent",
		zap.String("endpoint", endpoint),
		zap.String("body", form.Encode()),
	)
	b, err := json.Marshal(echo)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
