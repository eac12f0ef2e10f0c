package services

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/antaww/uta/internal/core/domain"
)

func TestLibrary_SaveAndRemove(t *testing.T) {
	lib := NewLibrary()
	s := &mockSession{}

	if err := lib.Save(context.Background(), s, []string{" t1 ", "t2"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !slices.Equal(s.saved, []string{"t1", "t2"}) {
		t.Fatalf("saved = %v", s.saved)
	}

	if err := lib.Remove(context.Background(), s, []string{"t1"}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !slices.Equal(s.removed, []string{"t1"}) {
		t.Fatalf("removed = %v", s.removed)
	}
}

func TestLibrary_Errors(t *testing.T) {
	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = "t" + strconv.Itoa(i)
	}

	tests := []struct {
		name    string
		session *mockSession
		ids     []string
		wantErr error
	}{
		{name: "no ids", session: &mockSession{}, wantErr: domain.ErrValidation},
		{name: "blank id", session: &mockSession{}, ids: []string{"t1", ""}, wantErr: domain.ErrValidation},
		{name: "too many", session: &mockSession{}, ids: tooMany, wantErr: domain.ErrValidation},
		{
			name:    "rate limited",
			session: &mockSession{libraryErr: &domain.RateLimitedError{}},
			ids:     []string{"t1"},
			wantErr: domain.ErrRateLimited,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewLibrary().Save(context.Background(), tc.session, tc.ids)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if err := NewLibrary().Remove(context.Background(), nil, []string{"t1"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated without a session, got %v", err)
	}
}
