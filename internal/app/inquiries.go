package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"portfolio/internal/i18n"
)

var (
	// ErrDuplicateInquiry signals that a submission id was already stored.
	ErrDuplicateInquiry = errors.New("duplicate inquiry")
	// ErrInvalidInquiry wraps validation failures of a contact submission.
	ErrInvalidInquiry = errors.New("invalid inquiry")
	// ErrNoStore is returned when no database is configured.
	ErrNoStore = errors.New("no inquiry store configured")
	// ErrInquiryNotFound is returned by Get for an unknown id.
	ErrInquiryNotFound = errors.New("inquiry not found")
)

const (
	maxNameLength    = 120
	maxEmailLength   = 254
	minMessageLength = 10
	maxMessageLength = 5000
)

// Inquiry is one contact form submission.
type Inquiry struct {
	ID        uuid.UUID
	Locale    i18n.Locale
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// FieldErrors maps a form field to the key of its error message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, field := range slices.Sorted(maps.Keys(f)) {
		parts = append(parts, field+": "+f[field])
	}
	return strings.Join(parts, ", ")
}

// NewInquiry trims and validates a submission. A malformed or missing id is
// replaced with a fresh one. Validation failures are FieldErrors wrapped in
// ErrInvalidInquiry.
func NewInquiry(id string, l i18n.Locale, name, email, message string) (Inquiry, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		parsed = uuid.New()
	}
	inq := Inquiry{
		ID:      parsed,
		Locale:  l,
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}

	fields := FieldErrors{}
	switch n := utf8.RuneCountInString(inq.Name); {
	case n == 0:
		fields["name"] = "required"
	case n > maxNameLength:
		fields["name"] = "too_long"
	}
	switch {
	case inq.Email == "":
		fields["email"] = "required"
	case len(inq.Email) > maxEmailLength:
		fields["email"] = "too_long"
	default:
		addr, err := mail.ParseAddress(inq.Email)
		if err != nil || addr.Address != inq.Email {
			fields["email"] = "invalid"
		}
	}
	switch n := utf8.RuneCountInString(inq.Message); {
	case n == 0:
		fields["message"] = "required"
	case n < minMessageLength:
		fields["message"] = "too_short"
	case n > maxMessageLength:
		fields["message"] = "too_long"
	}
	if !l.Valid() {
		fields["locale"] = "invalid"
	}

	if len(fields) > 0 {
		return inq, fmt.Errorf("%w: %w", ErrInvalidInquiry, fields)
	}
	return inq, nil
}

// InquiryStore persists contact submissions.
type InquiryStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// NewInquiryStore wraps db, opened with driver.
func NewInquiryStore(db *sql.DB, driver string) *InquiryStore {
	return &InquiryStore{db: db, driver: driver, now: time.Now}
}

// Insert stores inq. Storing the same id twice returns ErrDuplicateInquiry.
func (s *InquiryStore) Insert(ctx context.Context, inq Inquiry) error {
	if s == nil || s.db == nil {
		return ErrNoStore
	}
	const insert = `INSERT INTO inquiries (id, locale, name, email, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	created := inq.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	_, err := s.db.ExecContext(ctx, insert,
		inq.ID.String(), inq.Locale.String(), inq.Name, inq.Email, inq.Message, created.UTC().Truncate(time.Second))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateInquiry
		}
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

// Get loads the inquiry with the given id.
func (s *InquiryStore) Get(ctx context.Context, id uuid.UUID) (Inquiry, error) {
	if s == nil || s.db == nil {
		return Inquiry{}, ErrNoStore
	}
	const query = `SELECT id, locale, name, email, message, created_at FROM inquiries WHERE id = ?`
	var (
		inq            Inquiry
		rawID, rawLang string
	)
	err := s.db.QueryRowContext(ctx, query, id.String()).
		Scan(&rawID, &rawLang, &inq.Name, &inq.Email, &inq.Message, &inq.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Inquiry{}, ErrInquiryNotFound
		}
		return Inquiry{}, err
	}
	if inq.ID, err = uuid.Parse(rawID); err != nil {
		return Inquiry{}, fmt.Errorf("stored inquiry id %q: %w", rawID, err)
	}
	inq.Locale = i18n.Resolve(rawLang, i18n.English)
	return inq, nil
}

// Count returns the number of stored inquiries.
func (s *InquiryStore) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrNoStore
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
