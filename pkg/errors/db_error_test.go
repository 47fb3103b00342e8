package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	unique := Classify(&pq.Error{Code: "23505", Message: "duplicate key"})
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))

	fk := Classify(&pq.Error{Code: "23503", Message: "bases(id)"})
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))

	plain := Classify(errors.New("connection refused"))
	assert.False(t, IsUniqueViolation(plain))
	assert.False(t, IsForeignKeyViolation(plain))
}

func TestIsUniqueViolationSeesWrappedDriverError(t *testing.T) {
	err := fmt.Errorf("failed to insert base: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
}
