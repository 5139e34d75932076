package app

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/i18n"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db, "sqlite"))
	return db
}

func TestNewInquiry(t *testing.T) {
	id := uuid.NewString()
	inq, err := NewInquiry(" "+id+" ", i18n.Arabic, "  Sara ", "sara@example.com", "Need a landing page soon.")
	require.NoError(t, err)
	assert.Equal(t, id, inq.ID.String())
	assert.Equal(t, "Sara", inq.Name)
	assert.Equal(t, i18n.Arabic, inq.Locale)
}

func TestNewInquiryReplacesBadID(t *testing.T) {
	inq, err := NewInquiry("not-a-uuid", i18n.English, "Sara", "sara@example.com", "Need a landing page soon.")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, inq.ID)
}

func TestNewInquiryFieldErrors(t *testing.T) {
	tests := map[string]struct {
		name, email, message string
		want                 FieldErrors
	}{
		"all missing": {want: FieldErrors{"name": "required", "email": "required", "message": "required"}},
		"bad email": {
			name: "Sara", email: "Sara <sara@example.com>", message: "long enough message",
			want: FieldErrors{"email": "invalid"},
		},
		"short message": {
			name: "Sara", email: "sara@example.com", message: "hi",
			want: FieldErrors{"message": "too_short"},
		},
		"long name": {
			name: strings.Repeat("س", maxNameLength+1), email: "sara@example.com", message: "long enough message",
			want: FieldErrors{"name": "too_long"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewInquiry("", i18n.English, tc.name, tc.email, tc.message)
			require.ErrorIs(t, err, ErrInvalidInquiry)
			var fields FieldErrors
			require.True(t, errors.As(err, &fields))
			assert.Equal(t, tc.want, fields)
		})
	}
}

func TestFieldErrorsMessageIsSorted(t *testing.T) {
	err := FieldErrors{"name": "required", "email": "invalid"}
	assert.Equal(t, "email: invalid, name: required", err.Error())
}

func TestInquiryStoreRoundTrip(t *testing.T) {
	store := NewInquiryStore(newTestDB(t), "sqlite")
	fixed := time.Date(2026, 3, 1, 10, 30, 15, 500, time.FixedZone("EET", 2*3600))
	store.now = func() time.Time { return fixed }

	inq, err := NewInquiry("", i18n.Arabic, "Omar", "omar@example.com", "مرحبا، أحتاج متجر إلكتروني")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, inq))

	got, err := store.Get(ctx, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, inq.ID, got.ID)
	assert.Equal(t, i18n.Arabic, got.Locale)
	assert.Equal(t, inq.Message, got.Message)
	assert.True(t, got.CreatedAt.Equal(fixed.Truncate(time.Second)), got.CreatedAt)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInquiryStoreResolvesUnknownLocale(t *testing.T) {
	db := newTestDB(t)
	id := uuid.New()
	_, err := db.Exec(`INSERT INTO inquiries (id, locale, name, email, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), "EN", "Omar", "omar@example.com", "Please call me back.", time.Now().UTC())
	require.NoError(t, err)

	got, err := NewInquiryStore(db, "sqlite").Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, i18n.English, got.Locale)
}

func TestInquiryStoreDuplicate(t *testing.T) {
	store := NewInquiryStore(newTestDB(t), "sqlite")
	inq, err := NewInquiry("", i18n.English, "Omar", "omar@example.com", "Please call me back.")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, inq))
	require.ErrorIs(t, store.Insert(ctx, inq), ErrDuplicateInquiry)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInquiryStoreMissing(t *testing.T) {
	store := NewInquiryStore(newTestDB(t), "sqlite")
	_, err := store.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrInquiryNotFound)
}

func TestNilInquiryStore(t *testing.T) {
	var store *InquiryStore
	require.ErrorIs(t, store.Insert(context.Background(), Inquiry{}), ErrNoStore)
	_, err := store.Count(context.Background())
	require.ErrorIs(t, err, ErrNoStore)
}

func TestNewDBDisabled(t *testing.T) {
	_, err := NewDB(DatabaseConfig{})
	require.ErrorIs(t, err, ErrNoStore)
}

func TestMigrateUnknownDriver(t *testing.T) {
	err := Migrate(context.Background(), newTestDB(t), "postgres")
	require.Error(t, err)
}

func TestIsDuplicateKeyIgnoresOtherErrors(t *testing.T) {
	assert.False(t, isDuplicateKey(errors.New("boom")))
	assert.False(t, isDuplicateKey(sql.ErrNoRows))
}
