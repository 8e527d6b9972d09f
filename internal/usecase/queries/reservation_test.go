//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"hotel-reservation-engine/internal/infra"
	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/queries"
	queriesmock "hotel-reservation-engine/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGetByID(t *testing.T) {
	guest, owner, stranger := uuid.New(), uuid.New(), uuid.New()
	id := uuid.New()

	owned := &queries.ReservationView{ID: id, UserID: &guest, OwnerID: &owner, Status: "held"}
	anonymous := &queries.ReservationView{ID: id, OwnerID: &owner, Status: "held"}

	testCases := []struct {
		name    string
		view    *queries.ReservationView
		repoErr error
		viewer  queries.Viewer
		errIs   error
	}{
		{name: "guest", view: owned, viewer: queries.Viewer{UserID: &guest}},
		{name: "hotel owner", view: owned, viewer: queries.Viewer{UserID: &owner}},
		{name: "admin", view: owned, viewer: queries.Viewer{UserID: &stranger, Admin: true}},
		{name: "anonymous booking is readable by id", view: anonymous, viewer: queries.Viewer{}},
		{name: "stranger", view: owned, viewer: queries.Viewer{UserID: &stranger}, errIs: queries.ErrForbidden},
		{name: "unauthenticated", view: owned, viewer: queries.Viewer{}, errIs: queries.ErrForbidden},
		{
			name:    "missing",
			repoErr: infra.RepositoryError{Kind: infra.KindNotFound},
			viewer:  queries.Viewer{UserID: &guest},
			errIs:   queries.ErrReservationNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := queriesmock.NewMockReservationViewRepo(ctrl)
			repo.EXPECT().FindByID(gomock.Any(), id).Return(tc.view, tc.repoErr).Times(1)

			got, err := queries.NewReservationQueries(repo).GetByID(context.Background(), tc.viewer, id)
			if tc.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tc.view, got)
		})
	}

	t.Run("datastore failures pass through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, infra.RepositoryError{Kind: infra.KindDBFailure}).Times(1)

		_, err := queries.NewReservationQueries(repo).GetByID(context.Background(), queries.Viewer{Admin: true}, id)
		require.Error(t, err)
		assert.Equal(t, errs.CategoryInternal, errs.Classify(err))
	})
}

func TestListByHotel(t *testing.T) {
	owner := uuid.New()
	hotelID := uuid.New()
	base := time.Date(2030, 5, 15, 9, 0, 0, 0, time.UTC)

	rows := func(n int) []*queries.ReservationListItem {
		out := make([]*queries.ReservationListItem, n)
		for i := range out {
			out[i] = &queries.ReservationListItem{ID: uuid.New(), CreatedAt: base.Add(-time.Duration(i) * time.Minute), Status: "confirmed"}
		}
		return out
	}

	t.Run("full page carries a cursor to its last row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		all := rows(3)
		repo.EXPECT().FindHotelOwner(gomock.Any(), hotelID).Return(&owner, nil).Times(1)
		repo.EXPECT().ListByHotel(gomock.Any(), hotelID, "confirmed", nil, int32(3)).Return(all, nil).Times(1)

		page, err := queries.NewReservationQueries(repo).ListByHotel(context.Background(),
			queries.Viewer{UserID: &owner}, hotelID, queries.ListFilter{Status: "confirmed", Limit: 2})
		require.NoError(t, err)

		assert.Len(t, page.Items, 2)
		want := &queries.Cursor{CreatedAt: all[1].CreatedAt, ID: all[1].ID}
		if diff := cmp.Diff(want, page.Next); diff != "" {
			t.Errorf("cursor mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		after := &queries.Cursor{CreatedAt: base, ID: uuid.New()}
		repo.EXPECT().FindHotelOwner(gomock.Any(), hotelID).Return(&owner, nil).Times(1)
		repo.EXPECT().ListByHotel(gomock.Any(), hotelID, "", after, int32(queries.DefaultListLimit+1)).Return(rows(1), nil).Times(1)

		page, err := queries.NewReservationQueries(repo).ListByHotel(context.Background(),
			queries.Viewer{UserID: &owner}, hotelID, queries.ListFilter{After: after})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Nil(t, page.Next)
	})

	t.Run("admin may list any hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		repo.EXPECT().FindHotelOwner(gomock.Any(), hotelID).Return(nil, nil).Times(1)
		repo.EXPECT().ListByHotel(gomock.Any(), hotelID, "", nil, int32(queries.MaxListLimit+1)).Return(nil, nil).Times(1)

		page, err := queries.NewReservationQueries(repo).ListByHotel(context.Background(),
			queries.Viewer{Admin: true}, hotelID, queries.ListFilter{Limit: 5000})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("other owners are refused before listing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		other := uuid.New()
		repo.EXPECT().FindHotelOwner(gomock.Any(), hotelID).Return(&owner, nil).Times(1)

		_, err := queries.NewReservationQueries(repo).ListByHotel(context.Background(),
			queries.Viewer{UserID: &other}, hotelID, queries.ListFilter{})
		assert.True(t, errs.Is(err, queries.ErrForbidden))
	})

	t.Run("unknown hotel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := queriesmock.NewMockReservationViewRepo(ctrl)
		repo.EXPECT().FindHotelOwner(gomock.Any(), hotelID).Return(nil, infra.RepositoryError{Kind: infra.KindNotFound}).Times(1)

		_, err := queries.NewReservationQueries(repo).ListByHotel(context.Background(),
			queries.Viewer{Admin: true}, hotelID, queries.ListFilter{})
		assert.True(t, errs.Is(err, queries.ErrHotelNotFound))
	})
}
