package handler

import (
	"time"

	"github.com/msomdec/library-catalog/internal/domain"
)

// UserDTO is the JSON representation of a user in auth responses.
type UserDTO struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
	}
}

// UserListItemDTO is the JSON representation of a user in the admin listing.
type UserListItemDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func toUserListItemDTOs(users []domain.User) []UserListItemDTO {
	dtos := make([]UserListItemDTO, len(users))
	for i, u := range users {
		dtos[i] = UserListItemDTO{
			ID:        u.ID,
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return dtos
}

// BookDTO is the JSON representation of a book. Absent optional fields are
// encoded as null.
type BookDTO struct {
	ID              int64   `json:"id"`
	ISBN            *string `json:"isbn"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Category        *string `json:"category"`
	TotalCopies     int     `json:"total_copies"`
	AvailableCopies int     `json:"available_copies"`
	Description     *string `json:"description"`
	CreatedAt       string  `json:"created_at"`
}

func toBookDTO(b *domain.Book) BookDTO {
	return BookDTO{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookDTOs(books []domain.Book) []BookDTO {
	dtos := make([]BookDTO, len(books))
	for i := range books {
		dtos[i] = toBookDTO(&books[i])
	}
	return dtos
}

// LoanDTO is the JSON representation of a loan with its book fields. Email
// and FullName are only present in admin listings.
type LoanDTO struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	BookID     int64   `json:"book_id"`
	BorrowDate string  `json:"borrow_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
	Status     string  `json:"status"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Email      *string `json:"email,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
}

func toLoanDTO(l *domain.LoanView) LoanDTO {
	dto := LoanDTO{
		ID:         l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		BorrowDate: l.BorrowDate.UTC().Format(time.RFC3339),
		DueDate:    l.DueDate.UTC().Format(time.RFC3339),
		Status:     string(l.Status),
		Title:      l.Title,
		Author:     l.Author,
		Email:      l.Email,
		FullName:   l.FullName,
	}
	if l.ReturnDate != nil {
		s := l.ReturnDate.UTC().Format(time.RFC3339)
		dto.ReturnDate = &s
	}
	return dto
}

func toLoanDTOs(loans []domain.LoanView) []LoanDTO {
	dtos := make([]LoanDTO, len(loans))
	for i := range loans {
		dtos[i] = toLoanDTO(&loans[i])
	}
	return dtos
}

// StatsDTO is the JSON representation of the admin dashboard counters.
type StatsDTO struct {
	TotalBooks     int `json:"total_books"`
	AvailableBooks int `json:"available_books"`
	TotalUsers     int `json:"total_users"`
	ActiveLoans    int `json:"active_loans"`
}

func toStatsDTO(s *domain.Stats) StatsDTO {
	return StatsDTO{
		TotalBooks:     s.TotalBooks,
		AvailableBooks: s.AvailableBooks,
		TotalUsers:     s.TotalUsers,
		ActiveLoans:    s.ActiveLoans,
	}
}
