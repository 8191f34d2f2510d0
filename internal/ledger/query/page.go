package query

import (
	"errors"
	"slices"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgerror"
)

// MaxPageSize bounds the size argument of List.
const MaxPageSize = 100

var (
	ErrNegativePage    = errors.New("page number cannot be negative")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

// Page is one slice of an ordered result plus its position metadata.
type Page struct {
	Items         []entity.Transaction
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
	HasNext       bool
	HasPrevious   bool
}

// NewPage derives the metadata for items taken at page/size out of total.
func NewPage(items []entity.Transaction, page, size int, total int64) Page {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return Page{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
		HasNext:       page < totalPages-1,
		HasPrevious:   page > 0,
	}
}

// Clone returns a Page whose Items slice is not shared with p.
func (p Page) Clone() Page {
	p.Items = slices.Clone(p.Items)
	return p
}

// ValidatePagination checks page >= 0 and 1 <= size <= MaxPageSize.
func ValidatePagination(page, size int) error {
	if page < 0 {
		return pkgerror.NewInvalidInput(ErrNegativePage)
	}
	if size < 1 || size > MaxPageSize {
		return pkgerror.NewInvalidInput(ErrInvalidPageSize)
	}
	return nil
}

// List orders records and returns the requested page of them.
func List(records []entity.Transaction, page, size int) (Page, error) {
	if err := ValidatePagination(page, size); err != nil {
		return Page{}, err
	}

	sorted := SortByDateDesc(records)
	total := len(sorted)

	items := []entity.Transaction{}
	// Compare by division first; page*size overflows int for huge pages.
	if total > 0 && page <= (total-1)/size {
		start := page * size
		end := min(start+size, total)
		items = sorted[start:end]
	}

	return NewPage(items, page, size, int64(total)), nil
}
