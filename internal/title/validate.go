package title

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid marks a title that violates model invariants.
var ErrInvalid = errors.New("invalid title")

var (
	validateOnce sync.Once
	validate     *validator.Validate
	validateErr  error
)

func validatorInstance() (*validator.Validate, error) {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return IsKnownGenre(Genre(fl.Field().String()))
		}); err != nil {
			validateErr = fmt.Errorf("register genre validation: %w", err)
			return
		}
		if err := v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
			return IsKnownSource(Source(fl.Field().String()))
		}); err != nil {
			validateErr = fmt.Errorf("register source validation: %w", err)
			return
		}
		validate = v
	})
	return validate, validateErr
}

// Validate checks the model invariants that can be verified on a single record.
func (t *Title) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil title", ErrInvalid)
	}
	v, err := validatorInstance()
	if err != nil {
		return err
	}
	if err := v.Struct(t); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if t.IsPublic() {
		if len(t.NameVariants()) == 0 {
			return fmt.Errorf("%w: public title requires at least one name", ErrInvalid)
		}
		if len(t.MergeCandidates) > 0 {
			return fmt.Errorf("%w: public title cannot carry merge candidates", ErrInvalid)
		}
	}
	for i, c := range t.MergeCandidates {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("merge candidate %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks that exactly one reference kind is set.
func (c MergeCandidate) Validate() error {
	hasExternal := len(c.ExternalIDs) > 0
	switch {
	case c.InternalID == "" && !hasExternal:
		return fmt.Errorf("%w: candidate has no reference", ErrInvalid)
	case c.InternalID != "" && hasExternal:
		return fmt.Errorf("%w: candidate references both internal and external ids", ErrInvalid)
	}
	for src := range c.ExternalIDs {
		if !IsKnownSource(src) {
			return fmt.Errorf("%w: unknown candidate source %q", ErrInvalid, src)
		}
	}
	return nil
}
