package services

import (
	"errors"
	"testing"
	"time"

	"rentalhouse-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)

	msg, err := SendMessage(db, f.tenant.ID, MessageInput{
		ReceiverID:  f.owner.ID,
		PropertyID:  &f.property.ID,
		MessageText: "Is parking included?",
	})
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, msg.ReceiverID)
	require.NotNil(t, msg.PropertyID)
	assert.True(t, fixedNow.Equal(msg.SentAt))

	zero := uint(0)
	msg, err = SendMessage(db, f.owner.ID, MessageInput{ReceiverID: f.tenant.ID, PropertyID: &zero, MessageText: "Yes."})
	require.NoError(t, err)
	assert.Nil(t, msg.PropertyID)
}

func TestSendMessageValidation(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)
	admin, err := CreateAdmin(db, "root@example.com", "supersecret", "Root", "Admin")
	require.NoError(t, err)

	cases := []struct {
		name  string
		in    MessageInput
		field string
	}{
		{"blank", MessageInput{ReceiverID: f.owner.ID, MessageText: "   "}, "messageText"},
		{"admin receiver", MessageInput{ReceiverID: admin.ID, MessageText: "hello"}, "receiverID"},
		{"unknown receiver", MessageInput{ReceiverID: 9999, MessageText: "hello"}, "receiverID"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := SendMessage(db, f.tenant.ID, c.in)
			var formErr *FormError
			require.True(t, errors.As(err, &formErr), "got %v", err)
			assert.Equal(t, c.field, formErr.Field)
		})
	}

	_, err = ConfirmBooking(db, f.owner.ID, f.booking.ID)
	require.NoError(t, err)
	_, err = SendMessage(db, f.tenant.ID, MessageInput{ReceiverID: f.owner.ID, PropertyID: &f.property.ID, MessageText: "hi"})
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "propertyID", formErr.Field)
}

func TestInboxAndDelete(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)
	outsider := createUser(t, db, models.TenantRole)

	first, err := SendMessage(db, f.tenant.ID, MessageInput{ReceiverID: f.owner.ID, MessageText: "first"})
	require.NoError(t, err)
	timeNow = func() time.Time { return fixedNow.Add(time.Hour) }
	second, err := SendMessage(db, f.tenant.ID, MessageInput{ReceiverID: f.owner.ID, MessageText: "second"})
	require.NoError(t, err)

	inbox, err := GetInbox(db, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Received, 2)
	assert.Equal(t, second.ID, inbox.Received[0].ID)
	assert.Empty(t, inbox.Sent)

	sent, err := GetInbox(db, f.tenant.ID)
	require.NoError(t, err)
	assert.Len(t, sent.Sent, 2)

	assert.ErrorIs(t, MarkMessageRead(db, f.tenant.ID, first.ID), ErrForbidden)
	require.NoError(t, MarkMessageRead(db, f.owner.ID, first.ID))

	assert.ErrorIs(t, DeleteMessage(db, outsider.ID, first.ID), ErrForbidden)
	require.NoError(t, DeleteMessage(db, f.owner.ID, first.ID))
	assert.ErrorIs(t, DeleteMessage(db, f.owner.ID, first.ID), ErrNotFound)

	inbox, err = GetInbox(db, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, inbox.Received, 1)
}
