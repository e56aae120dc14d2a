package policy

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/amp-labs/amp-decorators/envutil"
	"github.com/amp-labs/amp-decorators/errors"
	"gopkg.in/yaml.v3"
)

// FileEnvVar names the environment variable LoadFromEnv reads the path from.
const FileEnvVar = "DECORATORS_POLICY_FILE"

var ErrNoPolicyFile = errors.New("no policy file configured")

// Parse decodes and validates a YAML policy document. Unknown fields are
// rejected so typos don't silently disable a decorator.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Load reads and parses the policy file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// LoadFromEnv loads the file named by DECORATORS_POLICY_FILE.
func LoadFromEnv() (*Document, error) {
	path, err := envutil.String(FileEnvVar, envutil.IfMissing[string](ErrNoPolicyFile)).Value()
	if err != nil {
		return nil, err
	}

	return Load(path)
}
