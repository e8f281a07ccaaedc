package fraudcases

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/koscakluka/ema-assist/core/records"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore("sqlite", filepath.Join(t.TempDir(), "fraud.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeedOnlyFillsEmptyTable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	n, err := store.Seed(ctx, SampleCases())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = store.Seed(ctx, SampleCases())
	require.NoError(t, err)
	require.Zero(t, n)

	cases, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 2)
}

func TestFindByNameIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Seed(ctx, SampleCases())
	require.NoError(t, err)

	testCases := []struct {
		query string
		want  []string
	}{
		{query: "john", want: []string{"John"}},
		{query: "JA", want: []string{"Jane"}},
		{query: "j", want: []string{"John", "Jane"}},
		{query: "bob", want: nil},
		{query: "%", want: nil},
		{query: "  ", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			cases, err := store.FindByName(ctx, tc.query)
			require.NoError(t, err)

			var got []string
			for _, c := range cases {
				got = append(got, c.UserName)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestUpdateStatusPersists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_, err := store.Seed(ctx, SampleCases())
	require.NoError(t, err)

	cases, err := store.FindByName(ctx, "john")
	require.NoError(t, err)
	require.Len(t, cases, 1)

	require.NoError(t, store.UpdateStatus(ctx, cases[0].ID, records.CaseConfirmedSafe, "customer recognized the charge"))

	got, err := store.Get(ctx, cases[0].ID)
	require.NoError(t, err)
	require.Equal(t, records.CaseConfirmedSafe, got.Status)
	require.Equal(t, "customer recognized the charge", got.Notes)

	other, err := store.FindByName(ctx, "jane")
	require.NoError(t, err)
	require.Equal(t, records.CasePendingReview, other[0].Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.ErrorIs(t, store.UpdateStatus(ctx, 99, records.CaseConfirmedFraud, ""), ErrNotFound)
	require.Error(t, store.UpdateStatus(ctx, 1, records.CaseStatus("lost"), ""))

	_, err := store.Get(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}
