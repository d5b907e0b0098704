package gitrepo

import (
	"errors"
	"fmt"
)

const (
	cloneErrorTemplateConstant      = "clone failed for %s: %v"
	tagErrorTemplateConstant        = "tag %s failed for %s: %v"
	pushErrorTemplateConstant       = "push of tag %s failed for %s: %v"
	tagExistsLocallyMessageConstant = "tag already exists locally"
)

// ErrTagAlreadyExists marks tag creation refused because the tag is already
// present in the local repository.
var ErrTagAlreadyExists = errors.New(tagExistsLocallyMessageConstant)

// CloneError reports a failed clone or update of a repository working tree.
type CloneError struct {
	Repository string
	Cause      error
}

// Error describes the clone failure.
func (cloneError CloneError) Error() string {
	return fmt.Sprintf(cloneErrorTemplateConstant, cloneError.Repository, cloneError.Cause)
}

// Unwrap exposes the underlying cause.
func (cloneError CloneError) Unwrap() error {
	return cloneError.Cause
}

// TagError reports a failed annotated tag creation.
type TagError struct {
	Repository string
	TagName    string
	Cause      error
}

// Error describes the tagging failure.
func (tagError TagError) Error() string {
	return fmt.Sprintf(tagErrorTemplateConstant, tagError.TagName, tagError.Repository, tagError.Cause)
}

// Unwrap exposes the underlying cause.
func (tagError TagError) Unwrap() error {
	return tagError.Cause
}

// PushError reports a tag push rejected by the remote or failed authentication.
type PushError struct {
	Repository string
	TagName    string
	Cause      error
}

// Error describes the push failure.
func (pushError PushError) Error() string {
	return fmt.Sprintf(pushErrorTemplateConstant, pushError.TagName, pushError.Repository, pushError.Cause)
}

// Unwrap exposes the underlying cause.
func (pushError PushError) Unwrap() error {
	return pushError.Cause
}
