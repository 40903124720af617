package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/benefits-portal-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) ListUnread(ctx context.Context, memberID string) ([]domain.Notification, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *mockNotificationStore) MarkAsRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	ns := &mockNotificationStore{}
	ns.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(ns)
	err := svc.MarkAsRead(context.Background(), "m1", "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMarkAsRead_OtherMembersNotification(t *testing.T) {
	ns := &mockNotificationStore{}
	ns.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", MemberID: "someone-else",
	}, nil)

	svc := NewService(ns)
	err := svc.MarkAsRead(context.Background(), "m1", "n1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	ns.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_HappyPath(t *testing.T) {
	ns := &mockNotificationStore{}
	ns.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", MemberID: "m1",
	}, nil)
	ns.On("MarkAsRead", mock.Anything, "n1").Return(nil)

	svc := NewService(ns)
	err := svc.MarkAsRead(context.Background(), "m1", "n1")

	require.NoError(t, err)
	ns.AssertExpectations(t)
}

func TestListUnread_PassesThrough(t *testing.T) {
	ns := &mockNotificationStore{}
	ns.On("ListUnread", mock.Anything, "m1").Return([]domain.Notification{
		{NotificationID: "n1", MemberID: "m1"},
	}, nil)

	svc := NewService(ns)
	list, err := svc.ListUnread(context.Background(), "m1")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n1", list[0].NotificationID)
}
