package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todone/internal/model"
)

// JSON-backed storage. Single file per project, human-readable.
// No locking: one process owns the file, external edits are overwritten
// by the next save.

const (
	DefaultConfigDir = ".vscode"
	DefaultFileName  = "todone.json"

	schemaURL = "todone.schema.json"
)

//go:embed schema.json
var schemaJSON []byte

// Notifier surfaces storage failures to the user.
type Notifier interface {
	Error(msg string)
}

// Options locate the backing file and wire logging/notification.
type Options struct {
	ConfigDir string
	FileName  string
	Logger    *log.Logger
	Notifier  Notifier
}

// Store reads and writes the todo document. Load and Save never fail
// towards the caller; failures are logged and reported through the Notifier.
type Store struct {
	path   string
	logger *log.Logger
	notify Notifier
	schema *jsonschema.Schema
}

type document struct {
	Todos []model.Todo `json:"todos"`
}

// New resolves <root>/<ConfigDir>/<FileName> and creates the config
// directory if it is missing.
func New(root string, opts Options) (*Store, error) {
	if root == "" {
		return nil, errors.New("empty project root")
	}
	if opts.ConfigDir == "" {
		opts.ConfigDir = DefaultConfigDir
	}
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}

	dir := filepath.Join(root, opts.ConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Store{
		path:   filepath.Join(dir, opts.FileName),
		logger: opts.Logger,
		notify: opts.Notifier,
		schema: schema,
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the stored todos, or an empty slice when the file is
// missing, unreadable or malformed.
func (s *Store) Load() []model.Todo {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Todo{}
		}
		s.fail("Failed to load todos", fmt.Errorf("read file: %w", err))
		return []model.Todo{}
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		s.fail("Failed to load todos", fmt.Errorf("json unmarshal: %w", err))
		return []model.Todo{}
	}
	s.check(b)

	if doc.Todos == nil {
		return []model.Todo{}
	}
	s.logger.Debug("loaded todos", "path", s.path, "count", len(doc.Todos))
	return doc.Todos
}

// Save writes {"todos": [...]} with two-space indentation. The data goes
// to a temp file first and is renamed over the target.
func (s *Store) Save(todos []model.Todo) {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := encode(document{Todos: todos})
	if err != nil {
		s.fail("Failed to save todos", fmt.Errorf("json marshal: %w", err))
		return
	}
	if err := writeFile(s.path, b); err != nil {
		s.fail("Failed to save todos", err)
		return
	}
	s.logger.Debug("saved todos", "path", s.path, "count", len(todos))
}

// encode indents by two spaces and leaves <, > and & unescaped.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func writeFile(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

// check validates the raw document against the embedded schema. Problems
// are only logged; the decoded records are used regardless.
func (s *Store) check(b []byte) {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return
	}
	err := s.schema.Validate(v)
	if err == nil {
		return
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		s.logger.Warn("schema validation", "path", s.path, "err", err)
		return
	}
	for _, cause := range leafCauses(ve) {
		s.logger.Warn("todo document does not match schema",
			"path", s.path, "at", cause.InstanceLocation, "msg", cause.Message)
	}
}

func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafCauses(c)...)
	}
	return out
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

func (s *Store) fail(msg string, err error) {
	s.logger.Error(msg, "path", s.path, "err", err)
	s.notify.Error(msg)
}

type nopNotifier struct{}

func (nopNotifier) Error(string) {}
