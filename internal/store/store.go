package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/zeebo/blake3"
)

// Store reads and writes one snapshot file.
type Store struct {
	path       string
	codec      Codec
	logger     *log.Logger
	lastDigest string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCodec overrides the extension-based codec.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// New returns a store for path. The codec is picked from the extension.
func New(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("snapshot path is empty")
	}
	s := &Store{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codec == nil {
		c, err := CodecFor(path)
		if err != nil {
			return nil, err
		}
		s.codec = c
	}
	return s, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Codec returns the codec in use.
func (s *Store) Codec() Codec {
	return s.codec
}

// LastDigest returns the digest of the bytes last read or written by this
// store, or "" if none.
func (s *Store) LastDigest() string {
	return s.lastDigest
}

// Changed reports whether the file on disk differs from what this store
// last read or wrote. A missing file counts as changed only if something
// had been read or written before.
func (s *Store) Changed() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.lastDigest != "", nil
		}
		return false, fmt.Errorf("read snapshot: %w", err)
	}
	return Digest(data) != s.lastDigest, nil
}

// Load reads the snapshot. It returns (nil, nil) when the file does not
// exist or its content is not a usable snapshot.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	s.lastDigest = Digest(data)

	snap, result := s.decode(data)
	for _, w := range result.Warnings {
		s.logger.Warn(w, "path", s.path)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			s.logger.Warn("ignoring invalid snapshot", "path", s.path, "err", e)
		}
		return nil, nil
	}
	return snap, nil
}

// Validate checks raw file content without loading it.
func (s *Store) Validate(data []byte) *ValidationResult {
	_, result := s.decode(data)
	return result
}

func (s *Store) decode(data []byte) (*Snapshot, *ValidationResult) {
	invalid := func(err error) *ValidationResult {
		return &ValidationResult{Errors: []error{&ValidationError{Err: err}}}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalid(errors.New("snapshot is empty"))
	}
	doc, err := s.codec.Decode(data)
	if err != nil {
		return nil, invalid(fmt.Errorf("decode %s: %w", s.codec.Name(), err))
	}
	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, invalid(fmt.Errorf("canonicalize: %w", err))
	}

	result := validateDocument(canonical)
	if !result.Valid {
		return nil, result
	}
	snap, warnings, err := Migrate(result.Version, canonical)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: err})
		return nil, result
	}
	result.Warnings = append(result.Warnings, warnings...)
	return snap, result
}

// Save writes the snapshot atomically: temp file, fsync, rename.
func (s *Store) Save(snap *Snapshot) error {
	if snap == nil {
		return errors.New("snapshot is nil")
	}
	snap.SchemaVersion = CurrentVersion
	data, err := s.codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	s.lastDigest = Digest(data)
	return nil
}

// Digest returns the hex blake3 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
