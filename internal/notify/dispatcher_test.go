package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathyb/qa-forum/backend/internal/models"
	"github.com/nathyb/qa-forum/backend/internal/notify"
	"github.com/nathyb/qa-forum/backend/internal/testdb"
)

func TestNotifyNewAnswer(t *testing.T) {
	db := testdb.New(t)
	owner := testdb.CreateUser(t, db, "asker")
	answerer := testdb.CreateUser(t, db, "answerer")
	question := testdb.CreateQuestion(t, db, owner.ID)
	dispatcher := notify.NewDispatcher(db, nil)

	id := dispatcher.NotifyNewAnswer(owner.ID, answerer.ID, question.QuestionID)
	require.NotZero(t, id)

	var n models.Notification
	require.NoError(t, db.First(&n, id).Error)
	assert.Equal(t, owner.ID, n.UserID)
	assert.Equal(t, models.NotificationAnswer, n.Type)
	require.NotNil(t, n.SenderID)
	assert.Equal(t, answerer.ID, *n.SenderID)
	require.NotNil(t, n.ReferenceID)
	assert.Equal(t, question.QuestionID, *n.ReferenceID)
	assert.False(t, n.IsRead)
}

func TestSelfNotificationSuppressed(t *testing.T) {
	db := testdb.New(t)
	user := testdb.CreateUser(t, db, "loner")
	question := testdb.CreateQuestion(t, db, user.ID)
	dispatcher := notify.NewDispatcher(db, nil)

	assert.Zero(t, dispatcher.NotifyNewAnswer(user.ID, user.ID, question.QuestionID))
	assert.Zero(t, dispatcher.NotifyUpvote(user.ID, user.ID, "42"))
	assert.Zero(t, dispatcher.NotifyNewComment(user.ID, user.ID, "42"))
	assert.Zero(t, dispatcher.NotifyMention(user.ID, user.ID, "42"))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNotifySystemHasNoSender(t *testing.T) {
	db := testdb.New(t)
	user := testdb.CreateUser(t, db, "recipient")
	dispatcher := notify.NewDispatcher(db, nil)

	id := dispatcher.NotifySystem(user.ID, "welcome aboard", nil)
	require.NotZero(t, id)

	var n models.Notification
	require.NoError(t, db.First(&n, id).Error)
	assert.Equal(t, models.NotificationSystem, n.Type)
	assert.Nil(t, n.SenderID)
	assert.Nil(t, n.ReferenceID)
}

func TestListNewestFirstWithSender(t *testing.T) {
	db := testdb.New(t)
	recipient := testdb.CreateUser(t, db, "recipient")
	sender := testdb.CreateUser(t, db, "sender")
	other := testdb.CreateUser(t, db, "other")
	dispatcher := notify.NewDispatcher(db, nil)

	first := dispatcher.NotifyUpvote(recipient.ID, sender.ID, "1")
	second := dispatcher.NotifyUpvote(recipient.ID, sender.ID, "2")
	third := dispatcher.NotifyUpvote(recipient.ID, sender.ID, "3")
	// A different recipient's notification must not leak into the list.
	dispatcher.NotifyUpvote(other.ID, sender.ID, "4")

	notifications, err := dispatcher.List(recipient.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	assert.Equal(t, third, notifications[0].ID)
	assert.Equal(t, second, notifications[1].ID)
	assert.Equal(t, first, notifications[2].ID)

	require.NotNil(t, notifications[0].Sender)
	assert.Equal(t, "sender", notifications[0].Sender.Username)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	db := testdb.New(t)
	recipient := testdb.CreateUser(t, db, "recipient")
	sender := testdb.CreateUser(t, db, "sender")
	dispatcher := notify.NewDispatcher(db, nil)

	a := dispatcher.NotifyUpvote(recipient.ID, sender.ID, "1")
	dispatcher.NotifyUpvote(recipient.ID, sender.ID, "2")

	count, err := dispatcher.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, dispatcher.MarkRead(a, recipient.ID))

	count, err = dispatcher.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := testdb.New(t)
	recipient := testdb.CreateUser(t, db, "recipient")
	sender := testdb.CreateUser(t, db, "sender")
	intruder := testdb.CreateUser(t, db, "intruder")
	dispatcher := notify.NewDispatcher(db, nil)

	id := dispatcher.NotifyUpvote(recipient.ID, sender.ID, "1")

	// Someone else marking the row read is a no-op.
	require.NoError(t, dispatcher.MarkRead(id, intruder.ID))

	var n models.Notification
	require.NoError(t, db.First(&n, id).Error)
	assert.False(t, n.IsRead)
}

func TestMarkAllRead(t *testing.T) {
	db := testdb.New(t)
	recipient := testdb.CreateUser(t, db, "recipient")
	sender := testdb.CreateUser(t, db, "sender")
	dispatcher := notify.NewDispatcher(db, nil)

	for i := 0; i < 3; i++ {
		dispatcher.NotifyUpvote(recipient.ID, sender.ID, "1")
	}

	require.NoError(t, dispatcher.MarkAllRead(recipient.ID))

	count, err := dispatcher.UnreadCount(recipient.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
