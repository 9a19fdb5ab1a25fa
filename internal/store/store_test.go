package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/config"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/crypto"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/database"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cipher, err := crypto.New("test-key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return New(db, cipher)
}

// ---------- users ----------

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newTestStore(t)

	has, err := s.HasUsers()
	if err != nil {
		t.Fatalf("has users: %v", err)
	}
	if has {
		t.Error("fresh store should have no users")
	}

	if err := s.RegisterUser("admin", "Secret123", "First pet?", "rex"); err != nil {
		t.Fatalf("register: %v", err)
	}

	has, _ = s.HasUsers()
	if !has {
		t.Error("store should report users after registration")
	}

	ok, err := s.Authenticate("admin", "Secret123")
	if err != nil || !ok {
		t.Errorf("correct password should authenticate, ok=%v err=%v", ok, err)
	}
	ok, _ = s.Authenticate("admin", "wrong")
	if ok {
		t.Error("wrong password should not authenticate")
	}
	ok, _ = s.Authenticate("nobody", "Secret123")
	if ok {
		t.Error("unknown username should not authenticate")
	}
}

func TestDuplicateUser(t *testing.T) {
	s := newTestStore(t)

	if err := s.RegisterUser("admin", "Secret123", "q", "a"); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := s.RegisterUser("admin", "Other456", "q2", "a2")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("second registration should fail with ErrDuplicateUser, got %v", err)
	}

	// original credentials unchanged
	ok, _ := s.Authenticate("admin", "Secret123")
	if !ok {
		t.Error("original password should still authenticate")
	}
	ok, _ = s.Authenticate("admin", "Other456")
	if ok {
		t.Error("rejected registration must not change credentials")
	}
}

func TestSecurityQuestionAndReset(t *testing.T) {
	s := newTestStore(t)

	if err := s.RegisterUser("admin", "OldPass1", "Mother's maiden name?", "smith"); err != nil {
		t.Fatalf("register: %v", err)
	}

	q, err := s.SecurityQuestion("admin")
	if err != nil || q != "Mother's maiden name?" {
		t.Errorf("security question mismatch: %q, %v", q, err)
	}
	if _, err := s.SecurityQuestion("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user should give ErrNotFound, got %v", err)
	}

	ok, _ := s.VerifySecurityAnswer("admin", "smith")
	if !ok {
		t.Error("correct answer should verify")
	}
	ok, _ = s.VerifySecurityAnswer("admin", "jones")
	if ok {
		t.Error("wrong answer should not verify")
	}

	if err := s.ResetPassword("admin", "NewPass2"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if ok, _ := s.Authenticate("admin", "NewPass2"); !ok {
		t.Error("new password should authenticate after reset")
	}
	if ok, _ := s.Authenticate("admin", "OldPass1"); ok {
		t.Error("old password should be invalid after reset")
	}

	if err := s.ResetPassword("nobody", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("reset for unknown user should give ErrNotFound, got %v", err)
	}
}

// ---------- students ----------

func TestAddAndGetStudent(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddStudent("Alice", "Form1", "parent@example.com", "+255712345678")
	if err != nil {
		t.Fatalf("add student: %v", err)
	}

	rec, err := s.GetStudent(id)
	if err != nil {
		t.Fatalf("get student: %v", err)
	}
	if rec.Name != "Alice" || rec.Form != "Form1" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.ParentEmail != "parent@example.com" || rec.ParentPhone != "+255712345678" {
		t.Errorf("contact fields should round-trip through encryption: %+v", rec)
	}
	if rec.TotalPaid != 0 {
		t.Errorf("total paid should start at 0, got %d", rec.TotalPaid)
	}

	// the persisted row must not contain plaintext contacts
	var raw models.Student
	if err := s.db.First(&raw, id).Error; err != nil {
		t.Fatalf("load raw row: %v", err)
	}
	if strings.Contains(raw.ParentEmail, "parent@example.com") {
		t.Error("parent email stored in plaintext")
	}
	if strings.Contains(raw.ParentPhone, "+255712345678") {
		t.Error("parent phone stored in plaintext")
	}

	if _, err := s.GetStudent(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown student should give ErrNotFound, got %v", err)
	}
}

func TestListAndSearchStudents(t *testing.T) {
	s := newTestStore(t)

	aliceID, _ := s.AddStudent("Alice Mushi", "Form1", "a@example.com", "+255700000001")
	s.AddStudent("Bob Kimaro", "Form2", "b@example.com", "+255700000002")

	all, err := s.ListStudents()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 students, got %d", len(all))
	}

	byName, err := s.SearchStudents("mushi")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Alice Mushi" {
		t.Errorf("substring name search failed: %+v", byName)
	}

	byID, err := s.SearchStudents("1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	found := false
	for _, st := range byID {
		if st.ID == aliceID {
			found = true
		}
	}
	if !found {
		t.Errorf("id search should match student %d: %+v", aliceID, byID)
	}

	none, _ := s.SearchStudents("zzz")
	if len(none) != 0 {
		t.Errorf("search with no matches should return empty, got %+v", none)
	}
}

// ---------- payments ----------

func TestRecordPaymentLedgerConsistency(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddStudent("Alice", "Form1", "a@example.com", "+255700000001")

	// scenario: fee_structure["Form1"] = 100000
	res, err := s.RecordPayment(id, 40000)
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if res.NewTotal != 40000 {
		t.Errorf("new total after first payment: want 40000, got %d", res.NewTotal)
	}
	if res.Reference == "" || res.Date == "" {
		t.Errorf("payment result should carry reference and date: %+v", res)
	}

	res, err = s.RecordPayment(id, 60000)
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if res.NewTotal != 100000 {
		t.Errorf("new total after second payment: want 100000, got %d", res.NewTotal)
	}

	// cached total equals the ledger sum at all times
	history, err := s.PaymentHistory(id)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("want 2 ledger entries, got %d", len(history))
	}
	var sum int64
	for _, e := range history {
		sum += e.Amount
	}
	rec, _ := s.GetStudent(id)
	if sum != rec.TotalPaid {
		t.Errorf("ledger sum %d diverged from cached total %d", sum, rec.TotalPaid)
	}
}

func TestRecordPaymentUnknownStudent(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddStudent("Alice", "Form1", "a@example.com", "+255700000001")

	_, err := s.RecordPayment(9999, 1000)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown student should give ErrNotFound, got %v", err)
	}

	// no ledger entry appeared and no student row changed
	var count int64
	s.db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("ledger should be empty, has %d entries", count)
	}
	rec, _ := s.GetStudent(id)
	if rec.TotalPaid != 0 {
		t.Errorf("existing student must be untouched, total %d", rec.TotalPaid)
	}
}

func TestRecordPaymentInvalidAmount(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddStudent("Alice", "Form1", "a@example.com", "+255700000001")

	for _, amount := range []int64{0, -1, -40000} {
		_, err := s.RecordPayment(id, amount)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("amount %d should give ErrInvalidAmount, got %v", amount, err)
		}
	}

	// rejected amounts are a no-op
	rec, _ := s.GetStudent(id)
	if rec.TotalPaid != 0 {
		t.Errorf("rejected payments must not change the total, got %d", rec.TotalPaid)
	}
	history, _ := s.PaymentHistory(id)
	if len(history) != 0 {
		t.Errorf("rejected payments must not append ledger entries, got %d", len(history))
	}
}

func TestPaymentHistoryOrder(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddStudent("Alice", "Form1", "a@example.com", "+255700000001")

	amounts := []int64{10000, 20000, 30000}
	for _, a := range amounts {
		if _, err := s.RecordPayment(id, a); err != nil {
			t.Fatalf("payment %d: %v", a, err)
		}
	}

	history, err := s.PaymentHistory(id)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != len(amounts) {
		t.Fatalf("want %d entries, got %d", len(amounts), len(history))
	}
	for i, e := range history {
		if e.Amount != amounts[i] {
			t.Errorf("entry %d: want amount %d, got %d", i, amounts[i], e.Amount)
		}
	}
}
