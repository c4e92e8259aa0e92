package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/service"
)

func TestTenantService_CreateTenant(t *testing.T) {
	repo := new(MockTenantRepo)
	svc := service.NewTenantService(repo)
	ctx := context.Background()

	t.Run("Trims and dedupes POS IDs", func(t *testing.T) {
		repo.ExpectedCalls = nil
		repo.On("Create", ctx, mock.MatchedBy(func(tn *domain.Tenant) bool {
			return tn.Name == "Acme" && reflect.DeepEqual(tn.PosIDs, []string{"POS-1", "POS-2"})
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Tenant).ID = 4
		}).Return(nil)

		tn, err := svc.CreateTenant(ctx, " Acme ", []string{" POS-1", "", "POS-2", "POS-1 "})
		require.NoError(t, err)
		assert.Equal(t, int32(4), tn.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Requires name and POS IDs", func(t *testing.T) {
		repo.ExpectedCalls = nil
		_, err := svc.CreateTenant(ctx, "Acme", []string{" ", ""})
		assert.True(t, domain.IsValidationError(err))
		assert.EqualError(t, err, "name and non-empty posIds array required")

		_, err = svc.CreateTenant(ctx, "", []string{"POS-1"})
		assert.True(t, domain.IsValidationError(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTenantService_AddPosID(t *testing.T) {
	repo := new(MockTenantRepo)
	svc := service.NewTenantService(repo)
	ctx := context.Background()

	err := svc.AddPosID(ctx, 1, "   ")
	assert.True(t, domain.IsValidationError(err))

	repo.On("AddPosID", ctx, int32(1), "POS-7").Return(nil)
	assert.NoError(t, svc.AddPosID(ctx, 1, " POS-7 "))

	repo.On("AddPosID", ctx, int32(2), "POS-8").Return(domain.ErrNotFound)
	assert.ErrorIs(t, svc.AddPosID(ctx, 2, "POS-8"), domain.ErrNotFound)
	repo.AssertExpectations(t)
}
