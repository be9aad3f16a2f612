package content

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"citrusreach/internal/config"
	"citrusreach/internal/domain"
)

func validateTitle(title string, maxLength int) error {
	if err := validation.Validate(title,
		validation.Required,
		validation.RuneLength(1, maxLength),
	); err != nil {
		return fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateContent(content string) error {
	if len(content) > config.MaxContentBytes {
		return fmt.Errorf("%w: content exceeds %d bytes", domain.ErrValidation, config.MaxContentBytes)
	}
	return nil
}
