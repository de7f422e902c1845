package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrItemSumMismatch  = errors.New("item amounts do not sum to activity cost")
	ErrNoHost           = errors.New("trip has no host member")
	ErrEmptyMemberName  = errors.New("empty member name")
	ErrInvalidDayNumber = errors.New("invalid day number")
)

type (
	// TransportDetail describes how a transit-like activity moves the
	// traveller. Only meaningful for transport, process and flight
	// activities; other categories ignore it.
	TransportDetail struct {
		Mode        string `json:"mode"`
		Duration    string `json:"duration"`
		FromStation string `json:"from_station,omitempty"`
		ToStation   string `json:"to_station,omitempty"`
		Instruction string `json:"instruction,omitempty"`
	}

	// CostItem is one line of an itemized cost split. An empty
	// AssignedTo means the item is split equally among all current trip
	// members.
	CostItem struct {
		Name       string   `json:"name"`
		Amount     Money    `json:"amount"`
		AssignedTo []string `json:"assigned_to,omitempty"`
	}

	// Activity is one scheduled unit within a day. Time is authoritative
	// only for the first activity of a day; for all others it is derived
	// by RecalcDay.
	Activity struct {
		ID          string           `json:"id"`
		Time        string           `json:"time"`
		Category    Category         `json:"category"`
		Title       string           `json:"title"`
		Description string           `json:"description,omitempty"`
		Location    string           `json:"location,omitempty"`
		Cost        Money            `json:"cost"`
		Payer       string           `json:"payer,omitempty"`
		SplitWith   []string         `json:"split_with,omitempty"`
		Items       []CostItem       `json:"items,omitempty"`
		Transport   *TransportDetail `json:"transport,omitempty"`
	}

	// Day is an ordered schedule of activities. Order is semantically
	// meaningful: it is the schedule.
	Day struct {
		DayNumber  int        `json:"day_number"`
		Date       string     `json:"date,omitempty"`
		Activities []Activity `json:"activities"`
	}

	// Member is a trip participant. Exactly one member should be flagged
	// host; the host is the default payer and the settlement reference.
	Member struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		IsHost bool   `json:"is_host"`
	}

	// Trip owns its members and days. All costs are in the trip's single
	// currency.
	Trip struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Currency  string    `json:"currency"`
		Members   []Member  `json:"members"`
		Days      []Day     `json:"days"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}
)

// Validate checks the fields a client controls. Categories outside the
// known set are rejected at write time even though the engines tolerate
// them on read.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if !a.Category.Known() {
		return ErrUnknownCategory
	}
	return a.ValidateItems()
}

// ValidateItems enforces money conservation: when an activity carries
// itemized splits, their amounts must sum to the declared cost. A
// mismatch is surfaced so the caller can prompt correction; it is never
// silently zero-filled, which would corrupt settlement invisibly.
func (a Activity) ValidateItems() error {
	if len(a.Items) == 0 {
		return nil
	}
	var sum int64
	for _, it := range a.Items {
		sum += it.Amount.Cents
	}
	if sum != a.Cost.Cents {
		return ErrItemSumMismatch
	}
	return nil
}

// Validate checks member fields on write.
func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyMemberName
	}
	return nil
}

// Host returns the host member of the trip, or ErrNoHost when no member
// is flagged. When several members are flagged the first wins.
func (t Trip) Host() (Member, error) {
	for _, m := range t.Members {
		if m.IsHost {
			return m, nil
		}
	}
	return Member{}, ErrNoHost
}

// DayByNumber returns a pointer to the day with the given number, or
// nil when the trip has no such day.
func (t *Trip) DayByNumber(n int) *Day {
	for i := range t.Days {
		if t.Days[i].DayNumber == n {
			return &t.Days[i]
		}
	}
	return nil
}

// ActivityByID locates an activity within the day. The second return is
// its index, or -1 when absent.
func (d Day) ActivityByID(id string) (Activity, int) {
	for i, a := range d.Activities {
		if a.ID == id {
			return a, i
		}
	}
	return Activity{}, -1
}
