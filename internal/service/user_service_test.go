package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digistore/internal/errors"
	"digistore/internal/model"
)

func TestUserService_GetUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Email: "a@example.com"}, nil)
	repo.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(repo, nil)

	user, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), 2)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything, 0, defaultPageSize).Return([]model.User{{ID: 1}}, int64(1), nil)

	svc := NewUserService(repo, nil)
	page, err := svc.ListUsers(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPageSize, page.Limit)
	assert.Len(t, page.Users, 1)
}

func TestUserService_UpdateRole(t *testing.T) {
	tests := []struct {
		name      string
		actorID   uint
		targetID  uint
		role      model.Role
		setupMock func(*MockUserRepository)
		wantErr   error
	}{
		{
			name:     "promote customer",
			actorID:  1,
			targetID: 2,
			role:     model.RoleAdmin,
			setupMock: func(m *MockUserRepository) {
				m.On("UpdateRole", mock.Anything, uint(2), model.RoleAdmin).Return(nil)
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.User{ID: 2, Role: model.RoleAdmin}, nil)
			},
		},
		{
			name:      "cannot demote self",
			actorID:   1,
			targetID:  1,
			role:      model.RoleCustomer,
			setupMock: func(m *MockUserRepository) {},
			wantErr:   errors.ErrForbidden,
		},
		{
			name:      "unknown role",
			actorID:   1,
			targetID:  2,
			role:      "owner",
			setupMock: func(m *MockUserRepository) {},
			wantErr:   errors.ErrInvalidRole,
		},
		{
			name:     "missing user",
			actorID:  1,
			targetID: 9,
			role:     model.RoleAdmin,
			setupMock: func(m *MockUserRepository) {
				m.On("UpdateRole", mock.Anything, uint(9), model.RoleAdmin).Return(gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			svc := NewUserService(repo, nil)
			user, err := svc.UpdateRole(context.Background(), tt.actorID, tt.targetID, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, user.Role)
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Delete", mock.Anything, uint(2)).Return(nil)
	svc := NewUserService(repo, nil)

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 1, 1), errors.ErrForbidden)
	assert.NoError(t, svc.DeleteUser(context.Background(), 1, 2))
	repo.AssertExpectations(t)
}
