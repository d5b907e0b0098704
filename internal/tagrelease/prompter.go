package tagrelease

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

const (
	tagPromptTitleConstant       = "Tag name"
	tagPromptDescriptionConstant = "Annotated tag applied to every configured repository"
	tagPromptPlaceholderConstant = "v1.2.0"
	emptyTagInputMessageConstant = "tag name must not be empty"
	promptAbortedMessageConstant = "tag prompt aborted"
)

// TagNamePrompter collects a tag name when none was supplied on the command line.
type TagNamePrompter interface {
	PromptTagName() (string, error)
}

// InteractiveTagNamePrompter collects the tag name through a terminal form.
type InteractiveTagNamePrompter struct{}

// NewInteractiveTagNamePrompter constructs the terminal-backed prompter.
func NewInteractiveTagNamePrompter() *InteractiveTagNamePrompter {
	return &InteractiveTagNamePrompter{}
}

// PromptTagName renders the input form and validates the entered value.
func (prompter *InteractiveTagNamePrompter) PromptTagName() (string, error) {
	var enteredTagName string

	tagInput := huh.NewInput().
		Title(tagPromptTitleConstant).
		Description(tagPromptDescriptionConstant).
		Placeholder(tagPromptPlaceholderConstant).
		Validate(func(candidate string) error {
			if len(strings.TrimSpace(candidate)) == 0 {
				return errors.New(emptyTagInputMessageConstant)
			}
			return nil
		}).
		Value(&enteredTagName)

	if runError := tagInput.Run(); runError != nil {
		if errors.Is(runError, huh.ErrUserAborted) {
			return "", errors.New(promptAbortedMessageConstant)
		}
		return "", runError
	}

	return strings.TrimSpace(enteredTagName), nil
}
