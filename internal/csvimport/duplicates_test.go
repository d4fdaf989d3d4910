package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codesOf(rec Record) []Code {
	var codes []Code
	for _, is := range rec.Errors {
		codes = append(codes, is.Code)
	}
	return codes
}

func TestCheckDuplicates(t *testing.T) {
	records := []Record{
		{Line: 2, Email: "a@x.com"},
		{Line: 3, Email: "a@x.com"},
		{Line: 4, Email: "b@x.com"},
	}

	out := CheckDuplicates(records, []string{"b@x.com"})

	require.Len(t, out, 3)
	assert.Empty(t, out[0].Errors)
	assert.Equal(t, []Code{CodeDuplicateInFile}, codesOf(out[1]))
	assert.Equal(t, []Code{CodeAlreadyRegistered}, codesOf(out[2]))
	assert.Equal(t, "email is already registered", out[2].Errors[0].Message)
}

func TestCheckDuplicates_AccumulatesAfterValidationErrors(t *testing.T) {
	records := []Record{
		{Line: 2, Email: "taken@x"},
		{Line: 3, Email: "taken@x", Errors: []Issue{{Code: CodeInvalidEmail, Field: ColEmail}}},
	}

	out := CheckDuplicates(records, []string{"taken@x"})

	assert.Equal(t, []Code{CodeAlreadyRegistered}, codesOf(out[0]))
	assert.Equal(t, []Code{CodeInvalidEmail, CodeDuplicateInFile, CodeAlreadyRegistered}, codesOf(out[1]))
}

func TestCheckDuplicates_InvalidRecordsStillSeed(t *testing.T) {
	records := []Record{
		{Line: 2, Email: "a@x.com", Errors: []Issue{{Code: CodeRequired, Field: ColName}}},
		{Line: 3, Email: "a@x.com"},
	}

	out := CheckDuplicates(records, nil)

	assert.Equal(t, []Code{CodeDuplicateInFile}, codesOf(out[1]))
}

func TestCheckDuplicates_DoesNotMutateInput(t *testing.T) {
	shared := make([]Issue, 1, 4)
	shared[0] = Issue{Code: CodeRequired, Field: ColName}
	records := []Record{
		{Line: 2, Email: "a@x.com"},
		{Line: 3, Email: "a@x.com", Errors: shared},
	}

	out := CheckDuplicates(records, []string{"a@x.com"})

	assert.Empty(t, records[0].Errors)
	assert.Len(t, records[1].Errors, 1)
	assert.Equal(t, CodeRequired, shared[:2][0].Code)
	assert.Equal(t, Issue{}, shared[:2][1], "spare capacity of the input slice must stay untouched")
	assert.Len(t, out[1].Errors, 3)
}

func TestResult_WithDuplicatesRecounts(t *testing.T) {
	res := ParseAt("name,email,phone,program\n가,a@x.com,010-1234-5678,P\n나,a@x.com,010-1234-5679,P\n", fixedDay)
	require.True(t, res.Success)

	checked := res.WithDuplicates(nil)

	assert.False(t, checked.Success)
	assert.Equal(t, 1, checked.ValidCount)
	assert.Equal(t, 1, checked.InvalidCount)
	assert.True(t, res.Success, "original result unchanged")
	assert.Equal(t, 2, res.ValidCount)
}
