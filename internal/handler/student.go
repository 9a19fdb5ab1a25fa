package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	"github.com/gin-gonic/gin"
)

// StudentHandler covers student registration, lookup and payment history.
type StudentHandler struct {
	Store *store.Store
	Fees  map[string]int64
}

func NewStudentHandler(s *store.Store, fees map[string]int64) *StudentHandler {
	return &StudentHandler{Store: s, Fees: fees}
}

type addStudentReq struct {
	Name        string `json:"name" binding:"required"`
	Form        string `json:"form" binding:"required"`
	ParentEmail string `json:"parent_email" binding:"required,email"`
	ParentPhone string `json:"parent_phone" binding:"required,phone"`
}

// Add registers a new student. The form must be a key of the fee structure;
// contact fields are validated here, before any mutation, and encrypted by
// the store.
func (h *StudentHandler) Add(c *gin.Context) {
	var req addStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Invalid(c, "invalid input")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Invalid(c, "name is required")
		return
	}
	if _, ok := h.Fees[req.Form]; !ok {
		util.Invalid(c, "unknown form")
		return
	}

	id, err := h.Store.AddStudent(req.Name, req.Form, req.ParentEmail, req.ParentPhone)
	if err != nil {
		util.ServerError(c, "could not add student")
		return
	}

	util.Success(c, util.Response{
		"message": "student added",
		"student": gin.H{
			"id":   id,
			"name": req.Name,
			"form": req.Form,
		},
	})
}

// List returns the balance table for all students. With ?q= it narrows to
// students matching by name substring or id.
func (h *StudentHandler) List(c *gin.Context) {
	var (
		students []store.StudentSummary
		err      error
	)
	if term := c.Query("q"); term != "" {
		students, err = h.Store.SearchStudents(term)
	} else {
		students, err = h.Store.ListStudents()
	}
	if err != nil {
		util.ServerError(c, "could not list students")
		return
	}
	util.Success(c, util.Response{
		"items": h.summaryItems(students),
	})
}

func (h *StudentHandler) summaryItems(students []store.StudentSummary) []gin.H {
	items := make([]gin.H, 0, len(students))
	for _, st := range students {
		item := gin.H{
			"id":         st.ID,
			"name":       st.Name,
			"form":       st.Form,
			"total_paid": st.TotalPaid,
		}
		if required, ok := h.Fees[st.Form]; ok {
			item["remaining"] = required - st.TotalPaid
		}
		items = append(items, item)
	}
	return items
}

// Get returns one student with decrypted contact fields.
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Invalid(c, "invalid student id")
		return
	}

	rec, err := h.Store.GetStudent(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.NotFound(c, "student not found")
		} else {
			util.ServerError(c, "could not load student")
		}
		return
	}

	util.Success(c, util.Response{
		"student": gin.H{
			"id":           rec.ID,
			"name":         rec.Name,
			"form":         rec.Form,
			"parent_email": rec.ParentEmail,
			"parent_phone": rec.ParentPhone,
			"total_paid":   rec.TotalPaid,
		},
	})
}

// History returns a student's ledger entries in recorded order.
func (h *StudentHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		util.Invalid(c, "invalid student id")
		return
	}

	// surface an unknown student instead of an empty history
	if _, err := h.Store.GetStudent(uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.NotFound(c, "student not found")
		} else {
			util.ServerError(c, "could not load student")
		}
		return
	}

	history, err := h.Store.PaymentHistory(uint(id))
	if err != nil {
		util.ServerError(c, "could not load payment history")
		return
	}

	items := make([]gin.H, 0, len(history))
	for _, e := range history {
		items = append(items, gin.H{
			"date":      e.Date,
			"amount":    e.Amount,
			"reference": e.Reference,
		})
	}
	util.Success(c, util.Response{
		"items": items,
	})
}
