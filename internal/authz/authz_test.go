package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRanker returns a canned most-privileged role per (user, house) pair.
type fakeRanker struct {
	ranks map[[2]uint64]uint64
	err   error
}

func (f *fakeRanker) MostPrivilegedRole(_ context.Context, userID, houseID uint64) (uint64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	r, ok := f.ranks[[2]uint64{userID, houseID}]
	return r, ok, nil
}

func TestEngineCanAssign(t *testing.T) {
	ranker := &fakeRanker{ranks: map[[2]uint64]uint64{
		{10, 1}: 3, // teacher in house 1
		{11, 1}: 1, // principal in house 1
		{12, 2}: 6, // student in house 2
	}}
	engine := NewEngine(ranker)

	tests := []struct {
		name      string
		principal Principal
		houseID   uint64
		roleID    uint64
		allowed   bool
	}{
		{"equal rank is allowed", Principal{ID: 10}, 1, 3, true},
		{"less privileged rank is allowed", Principal{ID: 10}, 1, 6, true},
		{"more privileged rank is denied", Principal{ID: 10}, 1, 1, false},
		{"principal may grant anything", Principal{ID: 11}, 1, 1, true},
		{"student cannot grant teacher", Principal{ID: 12}, 2, 3, false},
		{"no enrolment in house is denied", Principal{ID: 10}, 2, 6, false},
		{"unknown user is denied", Principal{ID: 99}, 1, 6, false},
		{"admin bypasses hierarchy", Principal{ID: 99, IsAdmin: true}, 1, 1, true},
		{"admin bypass ignores own rank", Principal{ID: 12, IsAdmin: true}, 2, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CanAssign(context.Background(), tt.principal, tt.houseID, tt.roleID)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, got)
		})
	}
}

func TestEngineCanAssignStoreError(t *testing.T) {
	boom := errors.New("connection lost")
	engine := NewEngine(&fakeRanker{err: boom})

	_, err := engine.CanAssign(context.Background(), Principal{ID: 1}, 1, 6)
	assert.ErrorIs(t, err, boom)

	// The rank lookup is skipped entirely for admins, so the same store
	// failure does not block them.
	ok, err := engine.CanAssign(context.Background(), Principal{ID: 1, IsAdmin: true}, 1, 6)
	require.NoError(t, err)
	assert.True(t, ok)
}
