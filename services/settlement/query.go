package settlement

import (
	"math"
	"sort"
	"strings"
	"time"

	"charterdesk/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const defaultPageSize = 20

// SortKey selects the single active sort column.
type SortKey string

const (
	SortBoatName    SortKey = "boat_name"
	SortBoatCompany SortKey = "boat_company"
	SortTripDate    SortKey = "trip_date"
	SortPriority    SortKey = "priority"
	SortTotalAmount SortKey = "total_amount"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortBoatName, SortBoatCompany, SortTripDate, SortPriority, SortTotalAmount:
		return SortKey(s), true
	}
	return SortTripDate, false
}

// PaymentStatus filters on client payment completeness.
type PaymentStatus string

const (
	PaymentAny       PaymentStatus = ""
	PaymentPending   PaymentStatus = "pending"   // either client slot unreceived
	PaymentCompleted PaymentStatus = "completed" // both received
)

// QueryParams carries every filter, sort and page input explicitly. Query is
// stateless; nothing is read from ambient globals.
type QueryParams struct {
	Search         string
	TripFrom       *time.Time
	TripTo         *time.Time
	PaymentStatus  PaymentStatus
	BoatCompany    string
	TransferOnly   bool
	Priority       *models.Priority
	DueWithinDays  *int
	IncludeSpecial bool // special tour category bookings are excluded by default

	Sort     SortKey
	SortDesc bool

	Page     int // 1-indexed
	PageSize int
}

// BookingView is a booking plus its derived, recomputed-on-read attributes.
type BookingView struct {
	models.Booking
	Priority      models.Priority `json:"priority"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	CompletionPct int             `json:"completion_pct"`
}

// QueryResult is one page plus the post-filter, pre-pagination set size.
type QueryResult struct {
	Items      []BookingView `json:"items"`
	TotalCount int           `json:"total_count"`
}

// NewBookingView derives priority, due date and completion for one booking.
func NewBookingView(b models.Booking, today time.Time) BookingView {
	return BookingView{
		Booking:       b,
		Priority:      Classify(b, today),
		DueDate:       DueDate(b),
		CompletionPct: completionPct(b),
	}
}

// completionPct is the signed share of the total owner amount, in whole
// percent. Slots without recorded amounts contribute nothing; a booking with
// no recorded amounts reports 100 only when vacuously complete.
func completionPct(b models.Booking) int {
	slots := []models.PaymentSlot{b.OwnerPayments.First, b.OwnerPayments.Second}
	if b.HasTransfer {
		slots = append(slots, b.OwnerPayments.Transfer)
	}
	total := models.ZeroMoney()
	signed := models.ZeroMoney()
	for _, s := range slots {
		total = total.Add(s.Amount)
		if s.Signed() {
			signed = signed.Add(s.Amount)
		}
	}
	if total.IsZero() {
		if b.OwnerComplete() {
			return 100
		}
		return 0
	}
	return int(math.Round(signed.Ratio(total) * 100))
}

// Query filters, sorts and paginates the booking collection for display.
func Query(bookings []models.Booking, params QueryParams, today time.Time) QueryResult {
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, NewBookingView(b, today))
	}

	filtered := views[:0:0]
	for _, v := range views {
		if matches(v, params, today) {
			filtered = append(filtered, v)
		}
	}

	sortViews(filtered, params.Sort, params.SortDesc)

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return QueryResult{
		Items:      filtered[start:end],
		TotalCount: len(filtered),
	}
}

// matches applies every active filter conjunctively.
func matches(v BookingView, params QueryParams, today time.Time) bool {
	if v.IsSpecialTourCategory && !params.IncludeSpecial {
		return false
	}
	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		if !strings.Contains(strings.ToLower(v.BoatName), needle) &&
			!strings.Contains(strings.ToLower(v.BoatCompany), needle) &&
			!strings.Contains(strings.ToLower(v.ClientName), needle) {
			return false
		}
	}
	if params.TripFrom != nil {
		if v.TripDate == nil || v.TripDate.Before(*params.TripFrom) {
			return false
		}
	}
	if params.TripTo != nil {
		if v.TripDate == nil || v.TripDate.After(*params.TripTo) {
			return false
		}
	}
	switch params.PaymentStatus {
	case PaymentPending:
		if v.ClientComplete() {
			return false
		}
	case PaymentCompleted:
		if !v.ClientComplete() {
			return false
		}
	}
	if params.BoatCompany != "" && !strings.EqualFold(v.BoatCompany, params.BoatCompany) {
		return false
	}
	if params.TransferOnly && !v.HasTransfer {
		return false
	}
	if params.Priority != nil && v.Priority != *params.Priority {
		return false
	}
	if params.DueWithinDays != nil {
		if v.DueDate == nil {
			return false
		}
		cutoff := today.Add(time.Duration(*params.DueWithinDays) * 24 * time.Hour)
		if v.DueDate.After(cutoff) {
			return false
		}
	}
	return true
}

func sortViews(views []BookingView, key SortKey, desc bool) {
	coll := collate.New(language.Und, collate.IgnoreCase)

	cmp := func(a, b BookingView) int {
		switch key {
		case SortBoatName:
			return coll.CompareString(a.BoatName, b.BoatName)
		case SortBoatCompany:
			return coll.CompareString(a.BoatCompany, b.BoatCompany)
		case SortPriority:
			return int(a.Priority) - int(b.Priority)
		case SortTotalAmount:
			return a.TotalAmount.Cmp(b.TotalAmount)
		default: // SortTripDate
			// Absent dates sort as the earliest possible value.
			at := timeOrZero(a.TripDate)
			bt := timeOrZero(b.TripDate)
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}

	sort.SliceStable(views, func(i, j int) bool {
		c := cmp(views[i], views[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
