package service

import (
	"testing"

	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/repository"
)

func TestNotifyWritesSynchronouslyWithoutQueue(t *testing.T) {
	env := setupShopTest(t, nil)

	env.notification.Notify(constants.NotificationTypeOrderCreated, "New order", "Order ORD-00000001 created", map[string]interface{}{
		"order_number": "ORD-00000001",
	})

	notifications, total, err := env.notification.List(repository.NotificationListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list notifications failed: %v", err)
	}
	if total != 1 || len(notifications) != 1 {
		t.Fatalf("want one notification, got total=%d len=%d", total, len(notifications))
	}
	got := notifications[0]
	if got.Type != constants.NotificationTypeOrderCreated {
		t.Fatalf("type want %s got %s", constants.NotificationTypeOrderCreated, got.Type)
	}
	if got.IsRead {
		t.Fatalf("fresh notification should be unread")
	}
	if got.Metadata["order_number"] != "ORD-00000001" {
		t.Fatalf("metadata order_number missing, got %v", got.Metadata)
	}
}

func TestMarkReadFlipsOnlyTheTargetRow(t *testing.T) {
	env := setupShopTest(t, nil)

	if err := env.notification.Persist(constants.NotificationTypeOrderCreated, "First", "first", nil); err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	if err := env.notification.Persist(constants.NotificationTypeOrderPaid, "Second", "second", nil); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	notifications, _, err := env.notification.List(repository.NotificationListFilter{Page: 1, PageSize: 10})
	if err != nil || len(notifications) != 2 {
		t.Fatalf("list failed: err=%v len=%d", err, len(notifications))
	}
	target := notifications[0].ID

	if err := env.notification.MarkRead(target); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	read, err := env.notification.Get(target)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !read.IsRead || read.ReadAt == nil {
		t.Fatalf("notification should be read with a timestamp, got read=%v at=%v", read.IsRead, read.ReadAt)
	}

	unread, err := env.notification.CountUnread()
	if err != nil {
		t.Fatalf("count unread failed: %v", err)
	}
	if unread != 1 {
		t.Fatalf("unread count want 1 got %d", unread)
	}
}

func TestMarkAllReadDrainsUnreadCount(t *testing.T) {
	env := setupShopTest(t, nil)

	for _, title := range []string{"a", "b", "c"} {
		if err := env.notification.Persist(constants.NotificationTypeOrderShipped, title, title, nil); err != nil {
			t.Fatalf("persist failed: %v", err)
		}
	}

	affected, err := env.notification.MarkAllRead()
	if err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	if affected != 3 {
		t.Fatalf("affected want 3 got %d", affected)
	}

	unread, err := env.notification.CountUnread()
	if err != nil {
		t.Fatalf("count unread failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("unread count want 0 got %d", unread)
	}

	// Idempotent: a second pass touches nothing.
	affected, err = env.notification.MarkAllRead()
	if err != nil || affected != 0 {
		t.Fatalf("second pass want 0 affected, got %d err=%v", affected, err)
	}
}

func TestNotificationMissingIDPaths(t *testing.T) {
	env := setupShopTest(t, nil)

	if _, err := env.notification.Get(9999); err != ErrNotificationNotFound {
		t.Fatalf("get want ErrNotificationNotFound got %v", err)
	}
	if err := env.notification.MarkRead(9999); err != ErrNotificationNotFound {
		t.Fatalf("mark read want ErrNotificationNotFound got %v", err)
	}
	if err := env.notification.Delete(9999); err != ErrNotificationNotFound {
		t.Fatalf("delete want ErrNotificationNotFound got %v", err)
	}
}

func TestDeleteRemovesNotificationForGood(t *testing.T) {
	env := setupShopTest(t, nil)

	if err := env.notification.Persist(constants.NotificationTypeOrderCreated, "Gone", "gone", nil); err != nil {
		t.Fatalf("persist failed: %v", err)
	}
	notifications, _, err := env.notification.List(repository.NotificationListFilter{Page: 1, PageSize: 10})
	if err != nil || len(notifications) != 1 {
		t.Fatalf("list failed: err=%v len=%d", err, len(notifications))
	}

	if err := env.notification.Delete(notifications[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.notification.Get(notifications[0].ID); err != ErrNotificationNotFound {
		t.Fatalf("deleted notification should be gone, got %v", err)
	}
}
