package models

// Category identifies the kind of facility
type Category string

// Facility categories (fixed set, catalog order)
const (
	CategoryLounge     Category = "lounge"
	CategoryMeal       Category = "meal"
	CategoryCafe       Category = "cafe"
	CategoryShopping   Category = "shopping"
	CategoryAttraction Category = "attraction"
	CategoryFoodSpot   Category = "food_spot"
	CategoryPaidTour   Category = "paid_tour"
	CategoryFreeTour   Category = "free_tour"
)

// CategoryDescriptor describes one entry of the category catalog shown to clients
type CategoryDescriptor struct {
	ID          Category `json:"id"`
	Label       string   `json:"label"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Count       int      `json:"count"`
}

// CategoryCatalog is the fixed catalog in presentation order. Counts are
// filled in per airport by the facility service.
var CategoryCatalog = []CategoryDescriptor{
	{ID: CategoryLounge, Label: "Lounges", Icon: "lounge", Description: "Rest areas and airport lounges"},
	{ID: CategoryMeal, Label: "Restaurants", Icon: "meal", Description: "Sit-down dining"},
	{ID: CategoryCafe, Label: "Cafes", Icon: "cafe", Description: "Coffee and light bites"},
	{ID: CategoryShopping, Label: "Shopping", Icon: "shopping", Description: "Duty free and retail"},
	{ID: CategoryAttraction, Label: "Attractions", Icon: "attraction", Description: "Exhibits and in-terminal attractions"},
	{ID: CategoryFoodSpot, Label: "Food Spots", Icon: "food_spot", Description: "Food courts and quick eats"},
	{ID: CategoryPaidTour, Label: "Paid Tours", Icon: "paid_tour", Description: "Bookable layover activities"},
	{ID: CategoryFreeTour, Label: "Free Tours", Icon: "free_tour", Description: "Free transit tours"},
}

// ParseCategory maps a wire value to a known category
func ParseCategory(s string) (Category, bool) {
	for _, d := range CategoryCatalog {
		if string(d.ID) == s {
			return d.ID, true
		}
	}
	return "", false
}

// TableTag identifies the category-family table a facility row came from
type TableTag string

// Category-family tables of the embedded facility database
const (
	TableRestAreas TableTag = "rest_areas"
	TableMeals     TableTag = "meals"
	TableShopping  TableTag = "shopping"
	TableEvents    TableTag = "events"
	TableFoodSpots TableTag = "food_spots"
	TablePaidTours TableTag = "paid_tours"
	TableFreeTours TableTag = "free_tours"
)

// FamilySpec describes one category-family table: which column carries the
// display name and which categories the table may host. Keeping the mapping
// here avoids re-deriving it in the store and the service layer.
type FamilySpec struct {
	Table      TableTag
	NameColumn string
	Categories []Category
}

// Families lists every category-family table in scan order
var Families = []FamilySpec{
	{Table: TableRestAreas, NameColumn: "rest_name", Categories: []Category{CategoryLounge}},
	{Table: TableMeals, NameColumn: "meal_name", Categories: []Category{CategoryMeal, CategoryCafe}},
	{Table: TableShopping, NameColumn: "shop_name", Categories: []Category{CategoryShopping}},
	{Table: TableEvents, NameColumn: "event_name", Categories: []Category{CategoryAttraction}},
	{Table: TableFoodSpots, NameColumn: "spot_name", Categories: []Category{CategoryFoodSpot}},
	{Table: TablePaidTours, NameColumn: "tour_name", Categories: []Category{CategoryPaidTour}},
	{Table: TableFreeTours, NameColumn: "tour_name", Categories: []Category{CategoryFreeTour}},
}

// FamilyForTable looks up the family spec for a table tag
func FamilyForTable(tag TableTag) (FamilySpec, bool) {
	for _, f := range Families {
		if f.Table == tag {
			return f, true
		}
	}
	return FamilySpec{}, false
}

// Hosts reports whether the family table may contain rows of the given category
func (f FamilySpec) Hosts(c Category) bool {
	for _, fc := range f.Categories {
		if fc == c {
			return true
		}
	}
	return false
}
