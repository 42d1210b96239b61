package domain

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrSchedulerClosed", ErrSchedulerClosed},
		{"ErrProcessLaunch", ErrProcessLaunch},
		{"ErrEmptyFolderList", ErrEmptyFolderList},
		{"ErrEmptyFolderPath", ErrEmptyFolderPath},
		{"ErrFolderNotFound", ErrFolderNotFound},
		{"ErrDuplicateFolder", ErrDuplicateFolder},
		{"ErrIntervalOutOfRange", ErrIntervalOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestConfigurationErrors_WrapInvalidInput(t *testing.T) {
	for _, err := range []error{
		ErrEmptyFolderList, ErrEmptyFolderPath, ErrFolderNotFound,
		ErrDuplicateFolder, ErrIntervalOutOfRange,
	} {
		assert.True(t, errors.Is(err, ErrInvalidInput), err.Error())
	}
	assert.False(t, errors.Is(ErrProcessLaunch, ErrInvalidInput))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "folders", Value: "/repo", Err: ErrDuplicateFolder}

	assert.Equal(t, `folders "/repo": invalid input: folder already added`, err.Error())
	assert.True(t, errors.Is(err, ErrDuplicateFolder))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var target *ValidationError
	assert.True(t, errors.As(error(err), &target))
	assert.Equal(t, "folders", target.Field)
}

func TestValidationError_NoValue(t *testing.T) {
	err := &ValidationError{Field: "folders", Err: ErrEmptyFolderList}
	assert.Equal(t, "folders: invalid input: folder list is empty", err.Error())
}

func TestProcessLaunchError(t *testing.T) {
	err := &ProcessLaunchError{Dir: "/repo", Name: "git", Err: os.ErrNotExist}

	assert.Contains(t, err.Error(), "launching git in /repo")
	assert.True(t, errors.Is(err, ErrProcessLaunch))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}
