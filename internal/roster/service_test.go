package roster

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/eduadmin/internal/csvimport"
	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/storage/memory"
	"github.com/aanand-mishra/eduadmin/internal/types"
)

var clock = time.Date(2026, time.October, 19, 14, 30, 0, 0, time.Local)

func newService(t *testing.T, m storage.Medium) *Service {
	t.Helper()
	svc := New(storage.New(m, logging.Discard()), logging.Discard())
	svc.now = func() time.Time { return clock }
	return svc
}

func kim() types.Student {
	return types.Student{
		Name:    "김철수",
		Email:   "kim@example.com",
		Phone:   "010-1234-5678",
		Program: "프로그램A",
	}
}

func TestService_CreateGetList(t *testing.T) {
	svc := newService(t, memory.New())

	created, err := svc.Create(kim())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "2026-10-19", created.EnrollDate)
	assert.Equal(t, "2026-10-19 14:30", created.CreatedAt)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, []types.Student{created}, svc.List())
}

func TestService_CreateValidation(t *testing.T) {
	svc := newService(t, memory.New())
	bad := kim()
	bad.Phone = "02-1234-5678"

	_, err := svc.Create(bad)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "phone", verrs[0].Field())
	assert.Empty(t, svc.List())
}

func TestService_CreateDuplicateEmail(t *testing.T) {
	svc := newService(t, memory.New())
	_, err := svc.Create(kim())
	require.NoError(t, err)

	_, err = svc.Create(kim())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_CreateUnavailable(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Create(kim())
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Empty(t, svc.List())
}

// brokenReads fails every Get while reads are switched off.
type brokenReads struct {
	*memory.Medium
	fail bool
}

var errLocked = errors.New("database is locked")

func (b *brokenReads) Get(key string) (string, bool, error) {
	if b.fail {
		return "", false, errLocked
	}
	return b.Medium.Get(key)
}

func TestService_ReadFailureNeverOverwrites(t *testing.T) {
	m := &brokenReads{Medium: memory.New()}
	svc := newService(t, m)
	created, err := svc.Create(kim())
	require.NoError(t, err)
	stored, _, err := m.Medium.Get(string(storage.KeyStudents))
	require.NoError(t, err)

	m.fail = true

	other := kim()
	other.Email = "lee@example.com"
	_, err = svc.Create(other)
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, errLocked)

	_, err = svc.Update(created.ID, other)
	assert.ErrorIs(t, err, ErrLoad)

	assert.ErrorIs(t, svc.Delete(created.ID), ErrLoad)

	report, err := svc.Import("name,email,phone,program\n가,a@x.com,010-1234-5678,P\n", false)
	assert.ErrorIs(t, err, ErrLoad)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 1, report.Result.ValidCount)

	after, _, err := m.Medium.Get(string(storage.KeyStudents))
	require.NoError(t, err)
	assert.Equal(t, stored, after)
}

func TestService_Update(t *testing.T) {
	svc := newService(t, memory.New())
	created, err := svc.Create(kim())
	require.NoError(t, err)

	change := kim()
	change.Team = "B팀"
	updated, err := svc.Update(created.ID, change)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.EnrollDate, updated.EnrollDate)
	assert.Equal(t, "B팀", updated.Team)

	_, err = svc.Update(created.ID+1, change)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateMissingWithTakenEmail(t *testing.T) {
	svc := newService(t, memory.New())
	created, err := svc.Create(kim())
	require.NoError(t, err)

	_, err = svc.Update(created.ID+1, kim())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_UpdateEmailClash(t *testing.T) {
	svc := newService(t, memory.New())
	first, err := svc.Create(kim())
	require.NoError(t, err)
	other := kim()
	other.Email = "lee@example.com"
	second, err := svc.Create(other)
	require.NoError(t, err)

	clash := kim()
	_, err = svc.Update(second.ID, clash)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Update(first.ID, clash)
	assert.NoError(t, err, "keeping one's own email is fine")
}

func TestService_Delete(t *testing.T) {
	svc := newService(t, memory.New())
	created, err := svc.Create(kim())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.Empty(t, svc.List())
	assert.ErrorIs(t, svc.Delete(created.ID), ErrNotFound)

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ImportCommitsValidRows(t *testing.T) {
	svc := newService(t, memory.New())
	_, err := svc.Create(kim())
	require.NoError(t, err)

	text := strings.Join([]string{
		"name,email,phone,program,team",
		"이영희,lee@example.com,010-2222-3333,프로그램B,A팀",
		"박지성,park@example.com,010-4444-5555,프로그램C,",
		"중복,lee@example.com,010-6666-7777,프로그램B,",
		"기존,kim@example.com,010-8888-9999,프로그램A,",
		"깨진,줄",
		"번호,bad@example.com,02-000-0000,프로그램A,",
	}, "\n")

	report, err := svc.Import(text, false)
	require.NoError(t, err)

	assert.NotEmpty(t, report.BatchID)
	assert.False(t, report.DryRun)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 4, report.Skipped)
	assert.False(t, report.Result.Success)
	assert.Equal(t, 2, report.Result.ValidCount)
	assert.Equal(t, 3, report.Result.InvalidCount)

	students := svc.List()
	require.Len(t, students, 3)
	assert.Equal(t, "lee@example.com", students[1].Email)
	assert.Equal(t, "A팀", students[1].Team)
	assert.Equal(t, "2026-10-19", students[2].EnrollDate)
	assert.NotEqual(t, students[1].ID, students[2].ID)
}

func TestService_ImportDryRunWritesNothing(t *testing.T) {
	svc := newService(t, memory.New())

	report, err := svc.Import("name,email,phone,program\n가,a@x.com,010-1234-5678,P\n", true)
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Zero(t, report.Imported)
	assert.True(t, report.Result.Success)
	assert.Empty(t, svc.List())
}

func TestService_ImportPersistFailure(t *testing.T) {
	svc := newService(t, memory.NewWithQuota(10))

	report, err := svc.Import("name,email,phone,program\n가,a@x.com,010-1234-5678,P\n", false)

	assert.ErrorIs(t, err, ErrPersist)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 1, report.Result.ValidCount)
}

func TestService_Preview(t *testing.T) {
	svc := newService(t, memory.New())
	_, err := svc.Create(kim())
	require.NoError(t, err)

	res := svc.Preview("name,email,phone,program\n가,kim@example.com,010-1234-5678,P\n")

	require.Len(t, res.Records, 1)
	require.Len(t, res.Records[0].Errors, 1)
	assert.Equal(t, csvimport.CodeAlreadyRegistered, res.Records[0].Errors[0].Code)
	assert.Len(t, svc.List(), 1)
}
