package storage_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/eduadmin/internal/logging"
	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/storage/memory"
)

type kpi struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Target float64  `json:"target"`
	Tags   []string `json:"tags,omitempty"`
}

// flakyMedium fails whichever operations are switched on.
type flakyMedium struct {
	*memory.Medium
	failGet    bool
	failSet    bool
	failDelete map[string]bool
}

var errBroken = errors.New("medium broken")

func (f *flakyMedium) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errBroken
	}
	return f.Medium.Get(key)
}

func (f *flakyMedium) Set(key, value string) error {
	if f.failSet {
		return errBroken
	}
	return f.Medium.Set(key, value)
}

func (f *flakyMedium) Delete(key string) error {
	if f.failDelete[key] {
		return errBroken
	}
	return f.Medium.Delete(key)
}

func newStore(m storage.Medium) *storage.Store {
	return storage.New(m, logging.Discard())
}

func TestStore_RoundTrip(t *testing.T) {
	s := newStore(memory.New())
	want := []kpi{
		{ID: 1, Name: "출석률", Target: 0.9, Tags: []string{"attendance"}},
		{ID: 2, Name: "과제 제출", Target: 12},
	}

	require.True(t, storage.Write(s, storage.KeyKPIs, want))
	got := storage.Read[kpi](s, storage.KeyKPIs)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_WriteReplaces(t *testing.T) {
	s := newStore(memory.New())

	require.True(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 1}, {ID: 2}}))
	require.True(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 3}}))

	assert.Equal(t, []kpi{{ID: 3}}, storage.Read[kpi](s, storage.KeyKPIs))
}

func TestStore_ReadAbsentIsEmpty(t *testing.T) {
	got := storage.Read[kpi](newStore(memory.New()), storage.KeyKPIs)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_NilWriteStoresEmptyArray(t *testing.T) {
	m := memory.New()
	s := newStore(m)

	require.True(t, storage.Write[kpi](s, storage.KeyKPIs, nil))

	raw, ok, err := m.Get(string(storage.KeyKPIs))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestStore_UndecodableIsEmpty(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":1}`, "null", `[{"id":"x"}]`} {
		m := memory.New()
		require.NoError(t, m.Set(string(storage.KeyKPIs), raw))

		got := storage.Read[kpi](newStore(m), storage.KeyKPIs)
		assert.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}
}

func TestStore_Unavailable(t *testing.T) {
	s := newStore(nil)

	assert.False(t, s.Available())
	assert.Empty(t, storage.Read[kpi](s, storage.KeyKPIs))
	assert.False(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 1}}))
	assert.False(t, s.Remove(storage.KeyKPIs))
	assert.False(t, s.ClearAll())
}

func TestStore_MediumFailures(t *testing.T) {
	m := &flakyMedium{Medium: memory.New()}
	s := newStore(m)
	require.True(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 1}}))

	m.failGet = true
	assert.Empty(t, storage.Read[kpi](s, storage.KeyKPIs))

	m.failSet = true
	assert.False(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 2}}))
}

func TestLoad_ReportsFailures(t *testing.T) {
	m := &flakyMedium{Medium: memory.New()}
	s := newStore(m)

	got, err := storage.Load[kpi](s, storage.KeyKPIs)
	require.NoError(t, err, "absent key is an empty collection")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.True(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 1}}))
	got, err = storage.Load[kpi](s, storage.KeyKPIs)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	m.failGet = true
	_, err = storage.Load[kpi](s, storage.KeyKPIs)
	assert.ErrorIs(t, err, errBroken)

	m.failGet = false
	require.NoError(t, m.Set(string(storage.KeyKPIs), "{not json"))
	_, err = storage.Load[kpi](s, storage.KeyKPIs)
	assert.Error(t, err)

	_, err = storage.Load[kpi](newStore(nil), storage.KeyKPIs)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestStore_QuotaExceeded(t *testing.T) {
	s := newStore(memory.NewWithQuota(16))

	assert.False(t, storage.Write(s, storage.KeyKPIs, []kpi{{ID: 1, Name: "too long for the quota"}}))
	assert.Empty(t, storage.Read[kpi](s, storage.KeyKPIs))
}

func TestStore_RemoveIdempotent(t *testing.T) {
	s := newStore(memory.New())
	require.True(t, storage.Write(s, storage.KeyNotices, []string{"공지"}))

	assert.True(t, s.Remove(storage.KeyNotices))
	assert.True(t, s.Remove(storage.KeyNotices))
	assert.Empty(t, storage.Read[string](s, storage.KeyNotices))
}

func TestStore_ClearAll(t *testing.T) {
	m := memory.New()
	s := newStore(m)
	for _, k := range storage.Keys() {
		require.True(t, storage.Write(s, k, []int{1}))
	}
	require.NoError(t, m.Set("unrelated", "[1]"))

	assert.True(t, s.ClearAll())
	assert.Equal(t, 1, m.Len(), "keys outside the recognised set survive")
}

func TestStore_ClearAllPartialFailure(t *testing.T) {
	m := &flakyMedium{
		Medium:     memory.New(),
		failDelete: map[string]bool{string(storage.KeyPrograms): true},
	}
	s := newStore(m)
	require.True(t, storage.Write(s, storage.KeyPrograms, []int{1}))
	require.True(t, storage.Write(s, storage.KeyStudents, []int{1}))

	assert.False(t, s.ClearAll())
	assert.Empty(t, storage.Read[int](s, storage.KeyStudents), "other keys are still cleared")
	assert.Equal(t, []int{1}, storage.Read[int](s, storage.KeyPrograms))
}

func TestParseKey(t *testing.T) {
	k, ok := storage.ParseKey("teamKpiGoals")
	assert.True(t, ok)
	assert.Equal(t, storage.KeyTeamKPIGoals, k)

	_, ok = storage.ParseKey("teamkpigoals")
	assert.False(t, ok)

	assert.Len(t, storage.Keys(), 10)
}
