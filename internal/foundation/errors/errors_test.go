package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "cryptogen.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "cryptogen.yaml", file)
	})

	t.Run("Constructors set category and fatal severity", func(t *testing.T) {
		cases := map[ErrorCategory]*ClassifiedError{
			CategoryArgument:      ArgumentError("a").Build(),
			CategoryRepository:    RepositoryAccessError("r").Build(),
			CategoryMissingModule: MissingModuleError("m").Build(),
			CategoryStaging:       StagingIOError("s").Build(),
			CategoryGeneration:    GenerationEngineError("g").Build(),
			CategoryDistribution:  DistributionIOError("d").Build(),
		}
		for category, err := range cases {
			assert.True(t, err.IsCategory(category), "category %s", category)
			assert.True(t, err.IsFatal(), "category %s", category)
		}
	})
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("exit status 128")
	classified := WrapError(cause, CategoryRepository, "git fetch failed").Build()
	wrapped := fmt.Errorf("stage clone: %w", classified)

	assert.True(t, IsClassified(wrapped))
	assert.True(t, HasCategory(wrapped, CategoryRepository))
	assert.Equal(t, CategoryRepository, GetCategory(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	err := WrapError(errors.New("boom"), CategoryStaging, "copy failed").Build()
	assert.Equal(t, "[staging] copy failed: boom", err.Error())
	assert.Equal(t, "[staging] copy failed", StagingIOError("copy failed").Build().Error())
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := DistributionIOError("missing artifact").Build()
	extended := base.WithContext("project", "dsa")

	_, ok := base.Context().Get("project")
	assert.False(t, ok)
	project, ok := extended.Context().GetString("project")
	require.True(t, ok)
	assert.Equal(t, "dsa", project)
	assert.ErrorIs(t, extended, base)
}
