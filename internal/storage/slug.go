package storage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/docsite/internal/apperr"
)

// slugRe admits a single path element that does not start with a dot.
var slugRe = regexp.MustCompile(`^[^./\\\x00][^/\\\x00]*$`)

// ValidateSlug rejects slugs that could resolve outside the source directory.
func ValidateSlug(slug string) error {
	err := validation.Validate(slug,
		validation.Required,
		validation.Match(slugRe),
		validation.By(func(any) error {
			if strings.Contains(slug, "..") {
				return errors.New("must not contain ..")
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("storage: slug %q: %w: %v", slug, apperr.ErrInvalidSlug, err)
	}
	return nil
}
