package core

// Category is the closed set of semantic tags an activity can carry.
// It governs both the default schedule duration and how the activity is
// rendered by clients.
type Category string

const (
	CategorySightseeing Category = "sightseeing"
	CategoryFood        Category = "food"
	CategoryCafe        Category = "cafe"
	CategoryShopping    Category = "shopping"
	CategoryRelax       Category = "relax"
	CategoryHotel       Category = "hotel"
	CategoryTransport   Category = "transport"
	CategoryFlight      Category = "flight"
	CategoryProcess     Category = "process"
	CategoryNote        Category = "note"
	CategoryExpense     Category = "expense"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategorySightseeing,
	CategoryFood,
	CategoryCafe,
	CategoryShopping,
	CategoryRelax,
	CategoryHotel,
	CategoryTransport,
	CategoryFlight,
	CategoryProcess,
	CategoryNote,
	CategoryExpense,
}

// Known reports whether c is one of the declared categories.
// Unknown categories are tolerated everywhere and fall back to the
// default duration policy.
func (c Category) Known() bool {
	switch c {
	case CategorySightseeing, CategoryFood, CategoryCafe, CategoryShopping,
		CategoryRelax, CategoryHotel, CategoryTransport, CategoryFlight,
		CategoryProcess, CategoryNote, CategoryExpense:
		return true
	}
	return false
}

// System reports whether c is a system-derived category. System
// activities (transit legs, flights, procedural buffers, notes) are
// produced or managed by the planner rather than entered as user
// content.
func (c Category) System() bool {
	switch c {
	case CategoryTransport, CategoryFlight, CategoryProcess, CategoryNote:
		return true
	}
	return false
}
