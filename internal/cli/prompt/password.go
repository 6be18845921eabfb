package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrPasswordMismatch indicates the confirmation didn't match.
var ErrPasswordMismatch = errors.New("passwords do not match")

// password prompts with masking and no validation.
func password(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	result, err := p.Run()
	return result, wrapError(err)
}

// PasswordWithValidation prompts for a password of at least minLength
// characters.
func PasswordWithValidation(label string, minLength int) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) < minLength {
				return fmt.Errorf("password must be at least %d characters", minLength)
			}
			return nil
		},
	}

	result, err := p.Run()
	return result, wrapError(err)
}

// PasswordWithConfirmation prompts for a password twice and fails with
// ErrPasswordMismatch when the answers differ.
func PasswordWithConfirmation(label, confirmLabel string, minLength int) (string, error) {
	pw, err := PasswordWithValidation(label, minLength)
	if err != nil {
		return "", err
	}

	confirm, err := password(confirmLabel)
	if err != nil {
		return "", err
	}

	if pw != confirm {
		return "", ErrPasswordMismatch
	}

	return pw, nil
}
