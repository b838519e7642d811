package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"coursekit-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type SyncAccountInput struct {
	Subject       string
	Email         string
	Name          *string
	AvatarMediaID *string
}

// SyncAccount upserts the account record for an externally verified identity.
// Idempotent: repeated syncs patch profile fields only. The role is assigned
// once, at creation — admin when the email is on the configured allow-list,
// student otherwise — and never altered by later syncs.
func SyncAccount(db *sqlx.DB, in SyncAccountInput, isAdmin bool) (models.Account, error) {
	subject := strings.TrimSpace(in.Subject)
	email := strings.TrimSpace(in.Email)
	if subject == "" || email == "" {
		return models.Account{}, ErrBadRequest("Subject and email are required")
	}

	now := time.Now().UTC()
	var account models.Account
	err := db.Get(&account, `SELECT * FROM accounts WHERE subject = $1`, subject)
	if err == nil {
		_, err = db.Exec(`
UPDATE accounts
SET email = $2, name = $3, avatar_media_id = $4, updated_at = $5
WHERE id = $1
`, account.ID, email, in.Name, in.AvatarMediaID, now)
		if err != nil {
			if isUniqueViolation(err, "accounts_email_key") {
				return models.Account{}, ErrConflict("An account with this email already exists")
			}
			return models.Account{}, err
		}
		return AccountBySubject(db, subject)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, err
	}

	role := RoleStudent
	if isAdmin {
		role = RoleAdmin
	}
	id := uuid.NewString()
	_, err = db.Exec(`
INSERT INTO accounts (id, subject, email, name, avatar_media_id, role, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
`, id, subject, email, in.Name, in.AvatarMediaID, role, now)
	if err != nil {
		if isUniqueViolation(err, "accounts_subject_key") {
			// Concurrent sync for the same subject; the first writer won.
			return AccountBySubject(db, subject)
		}
		if isUniqueViolation(err, "accounts_email_key") {
			return models.Account{}, ErrConflict("An account with this email already exists")
		}
		return models.Account{}, err
	}
	return AccountBySubject(db, subject)
}

// AccountBySubject loads the account matching a verified identity subject.
// Absence maps to Unauthenticated: a valid token without a synced account
// cannot act.
func AccountBySubject(db *sqlx.DB, subject string) (models.Account, error) {
	var account models.Account
	err := db.Get(&account, `SELECT * FROM accounts WHERE subject = $1`, subject)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrUnauthenticated("Account not found")
	}
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func AccountByID(db *sqlx.DB, id string) (models.Account, error) {
	var account models.Account
	err := db.Get(&account, `SELECT * FROM accounts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound("Account not found")
	}
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// UpdateAccountRole changes another account's role. Admin only; sync never
// touches roles, so this is the single write path for them.
func UpdateAccountRole(db *sqlx.DB, caller models.Account, accountID, role string) error {
	if caller.Role != RoleAdmin {
		return ErrForbidden("Only admins can change roles")
	}
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
	default:
		return ErrBadRequest("Unknown role: " + role)
	}
	result, err := db.Exec(`UPDATE accounts SET role = $2, updated_at = $3 WHERE id = $1`,
		accountID, role, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound("Account not found")
	}
	return nil
}

type AccountStats struct {
	EnrolledCourses  int `db:"enrolled_courses" json:"enrolledCourses"`
	CompletedCourses int `db:"completed_courses" json:"completedCourses"`
}

func StatsForAccount(db *sqlx.DB, accountID string) (AccountStats, error) {
	var stats AccountStats
	err := db.Get(&stats, `
SELECT count(*) AS enrolled_courses,
       count(*) FILTER (WHERE status = 'completed') AS completed_courses
FROM enrollments
WHERE user_id = $1
`, accountID)
	return stats, err
}

// CanMutateCourse is the single ownership predicate for catalog mutations:
// admins may act on any course, instructors only on their own.
func CanMutateCourse(caller models.Account, course models.Course) bool {
	if caller.Role == RoleAdmin {
		return true
	}
	return caller.Role == RoleInstructor && course.InstructorID == caller.ID
}
