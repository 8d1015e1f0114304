package services

import (
	"errors"
	"testing"

	"rentalhouse-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReview(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)

	review, err := SubmitReview(db, f.tenant.ID, f.booking.ID, ReviewInput{Rating: 4, ReviewText: "Great place, quiet street."})
	require.NoError(t, err)
	assert.Equal(t, f.property.ID, review.PropertyID)
	assert.True(t, review.IsApproved)

	_, err = SubmitReview(db, f.tenant.ID, f.booking.ID, ReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	stranger := createUser(t, db, models.TenantRole)
	_, err = SubmitReview(db, stranger.ID, f.booking.ID, ReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)

	for _, rating := range []int{0, 6, -1} {
		_, err := SubmitReview(db, f.tenant.ID, f.booking.ID, ReviewInput{Rating: rating})
		var formErr *FormError
		require.True(t, errors.As(err, &formErr), "rating %d", rating)
		assert.Equal(t, "rating", formErr.Field)
	}

	_, err := SubmitReview(db, f.tenant.ID, f.booking.ID, ReviewInput{Rating: 3, ReviewText: "  meh  "})
	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "reviewText", formErr.Field)

	// text is optional
	_, err = SubmitReview(db, f.tenant.ID, f.booking.ID, ReviewInput{Rating: 3})
	assert.NoError(t, err)
}

func TestReviewModeration(t *testing.T) {
	db := setupTestDB(t)
	f := newRentalFixture(t, db)
	review, err := SubmitReview(db, f.tenant.ID, f.booking.ID, ReviewInput{Rating: 2, ReviewText: "Heating never worked."})
	require.NoError(t, err)

	responded, err := RespondToReview(db, f.owner.ID, review.ID, " Fixed now. ")
	require.NoError(t, err)
	assert.Equal(t, "Fixed now.", responded.OwnerResponse)

	other := createUser(t, db, models.OwnerRole)
	_, err = RespondToReview(db, other.ID, review.ID, "not mine")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = SetReviewApproval(db, review.ID, false)
	require.NoError(t, err)

	approved := true
	visible, err := ListReviews(db, &approved)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := ListReviews(db, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	detail, err := GetPropertyDetail(db, f.property.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Reviews)

	_, err = SetReviewApproval(db, 404, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
