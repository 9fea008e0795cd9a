package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidDBPath indicates a missing or unusable database path
	ErrInvalidDBPath = errors.New("invalid database path")

	// ErrInvalidLanguage indicates an unsupported default language
	ErrInvalidLanguage = errors.New("invalid default language")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err)
	}

	if err := validateParser(&cfg.Parser); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateStorage(cfg *StorageConfig) error {
	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalidDBPath)
	}
	if strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: db_path must name a file, got '%s'", ErrInvalidDBPath, cfg.DBPath)
	}
	return nil
}

func validateParser(cfg *ParserConfig) error {
	switch strings.ToLower(cfg.DefaultLanguage) {
	case "", "c", "cpp":
		return nil
	}
	return fmt.Errorf("%w: must be 'c', 'cpp' or empty, got '%s'", ErrInvalidLanguage, cfg.DefaultLanguage)
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	for _, group := range [][]string{cfg.Code, cfg.Ignore} {
		for _, pattern := range group {
			if _, err := glob.Compile(pattern, '/'); err != nil {
				errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
			}
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches each joined sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{
		msg:  fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")),
		errs: errs,
	}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string {
	return e.msg
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
