// Package store is the record store: durable CRUD over users, students and
// the payment ledger. It is the only component allowed to mutate these
// entities, and RecordPayment is the one compound operation that must keep
// a student's cached total in step with the ledger.
package store

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/crypto"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a student or user does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUser is returned when a username is already taken.
	ErrDuplicateUser = errors.New("username already exists")
	// ErrInvalidAmount is returned for non-positive payment amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

const dateLayout = "2006-01-02 15:04:05"

// Store wraps the database connection and the cipher used for contact
// fields and credential digests.
type Store struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

func New(db *gorm.DB, cipher *crypto.Cipher) *Store {
	return &Store{db: db, cipher: cipher}
}

// ---------- users ----------

// HasUsers reports whether any operator account exists. A fresh install has
// none and must go through first-run registration.
func (s *Store) HasUsers() (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// RegisterUser creates an operator account, persisting digests of the
// password and the security answer.
func (s *Store) RegisterUser(username, password, question, answer string) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUser
	}

	user := models.User{
		Username:         username,
		PasswordDigest:   s.cipher.Hash(password),
		SecurityQuestion: question,
		AnswerDigest:     s.cipher.Hash(answer),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Authenticate reports whether the password matches the stored digest for
// the username. It deliberately gives no reason for a failure.
func (s *Store) Authenticate(username, password string) (bool, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}
	digest := s.cipher.Hash(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(user.PasswordDigest)) == 1, nil
}

// GetUser loads an operator account by id. Used by the auth middleware.
func (s *Store) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// UserByName loads an operator account by username.
func (s *Store) UserByName(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// SecurityQuestion returns the recovery question for a username.
func (s *Store) SecurityQuestion(username string) (string, error) {
	user, err := s.UserByName(username)
	if err != nil {
		return "", err
	}
	return user.SecurityQuestion, nil
}

// VerifySecurityAnswer reports whether the answer matches the stored digest.
func (s *Store) VerifySecurityAnswer(username, answer string) (bool, error) {
	user, err := s.UserByName(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	digest := s.cipher.Hash(answer)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(user.AnswerDigest)) == 1, nil
}

// ResetPassword overwrites the stored password digest unconditionally.
// Callers must have verified the security answer first; the store does not
// re-check it.
func (s *Store) ResetPassword(username, newPassword string) error {
	res := s.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("password_digest", s.cipher.Hash(newPassword))
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- students ----------

// StudentRecord is a student with contact fields decrypted.
type StudentRecord struct {
	ID          uint
	Name        string
	Form        string
	ParentEmail string
	ParentPhone string
	TotalPaid   int64
}

// StudentSummary is the list/search projection. Contact fields stay
// encrypted at rest and are not part of it.
type StudentSummary struct {
	ID        uint
	Name      string
	Form      string
	TotalPaid int64
}

// AddStudent registers a student, encrypting the parent contact fields
// before they touch the database. Total paid starts at zero.
func (s *Store) AddStudent(name, form, email, phone string) (uint, error) {
	encEmail, err := s.cipher.Encrypt(email)
	if err != nil {
		return 0, fmt.Errorf("encrypt email: %w", err)
	}
	encPhone, err := s.cipher.Encrypt(phone)
	if err != nil {
		return 0, fmt.Errorf("encrypt phone: %w", err)
	}

	student := models.Student{
		Name:        name,
		Form:        form,
		ParentEmail: encEmail,
		ParentPhone: encPhone,
	}
	if err := s.db.Create(&student).Error; err != nil {
		return 0, fmt.Errorf("create student: %w", err)
	}
	return student.ID, nil
}

// GetStudent loads one student and decrypts the contact fields.
func (s *Store) GetStudent(id uint) (*StudentRecord, error) {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load student: %w", err)
	}

	email, err := s.cipher.Decrypt(student.ParentEmail)
	if err != nil {
		return nil, fmt.Errorf("decrypt email: %w", err)
	}
	phone, err := s.cipher.Decrypt(student.ParentPhone)
	if err != nil {
		return nil, fmt.Errorf("decrypt phone: %w", err)
	}

	return &StudentRecord{
		ID:          student.ID,
		Name:        student.Name,
		Form:        student.Form,
		ParentEmail: email,
		ParentPhone: phone,
		TotalPaid:   student.TotalPaid,
	}, nil
}

// ListStudents returns all students as summaries, ordered by id.
func (s *Store) ListStudents() ([]StudentSummary, error) {
	var students []models.Student
	if err := s.db.Order("id ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return summaries(students), nil
}

// SearchStudents matches by substring on name or on the id, with SQLite's
// default LIKE case rules.
func (s *Store) SearchStudents(term string) ([]StudentSummary, error) {
	pattern := "%" + term + "%"
	var students []models.Student
	if err := s.db.
		Where("name LIKE ? OR CAST(id AS TEXT) LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	return summaries(students), nil
}

func summaries(students []models.Student) []StudentSummary {
	out := make([]StudentSummary, 0, len(students))
	for i := range students {
		st := &students[i]
		out = append(out, StudentSummary{
			ID:        st.ID,
			Name:      st.Name,
			Form:      st.Form,
			TotalPaid: st.TotalPaid,
		})
	}
	return out
}

// ---------- payments ----------

// PaymentResult is what RecordPayment committed.
type PaymentResult struct {
	NewTotal  int64
	Reference string
	Date      string
}

// PaymentEntry is one row of a student's payment history.
type PaymentEntry struct {
	Date      string
	Amount    int64
	Reference string
}

// RecordPayment applies one payment as a single transaction: the student's
// cached total and the appended ledger entry become visible together or not
// at all. This is the only place an inconsistency between the two could
// silently corrupt the books.
func (s *Store) RecordPayment(studentID uint, amount int64) (*PaymentResult, error) {
	var result PaymentResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load student: %w", err)
		}

		if amount <= 0 {
			return ErrInvalidAmount
		}

		newTotal := student.TotalPaid + amount
		if err := tx.Model(&student).Update("total_paid", newTotal).Error; err != nil {
			return fmt.Errorf("update total: %w", err)
		}

		payment := models.Payment{
			StudentID: student.ID,
			Amount:    amount,
			Reference: uuid.NewString(),
			Date:      time.Now().Format(dateLayout),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		result = PaymentResult{
			NewTotal:  newTotal,
			Reference: payment.Reference,
			Date:      payment.Date,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentHistory returns a student's ledger entries in the order they were
// recorded.
func (s *Store) PaymentHistory(studentID uint) ([]PaymentEntry, error) {
	var payments []models.Payment
	if err := s.db.
		Where("student_id = ?", studentID).
		Order("date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	out := make([]PaymentEntry, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		out = append(out, PaymentEntry{
			Date:      p.Date,
			Amount:    p.Amount,
			Reference: p.Reference,
		})
	}
	return out, nil
}
