package services

// BuiltinCategory is one entry of the static legacy category list served
// by /api/meta/categories. It predates the dynamic category store and is
// kept for clients that still read it; the two are independent.
type BuiltinCategory struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// BuiltinCategories is the fixed legacy list.
var BuiltinCategories = []BuiltinCategory{
	{Name: "Sleep", Subcategories: []string{"Night", "Nap"}},
	{Name: "Meal", Subcategories: []string{"Breakfast", "Lunch", "Dinner", "Snacks"}},
	{Name: "Exercise", Subcategories: []string{"Running", "Walking", "Cycling", "Gym", "Yoga"}},
	{Name: "Work", Subcategories: []string{"Meetings", "Coding", "Email", "Planning"}},
	{Name: "Project", Subcategories: []string{}},
	{Name: "Study", Subcategories: []string{"Reading", "Courses", "Practice"}},
	{Name: "Entertainment", Subcategories: []string{"TV", "Movies", "Games", "Social Media"}},
	{Name: "Chores", Subcategories: []string{"Cleaning", "Cooking", "Shopping", "Laundry"}},
	{Name: "Travel", Subcategories: []string{"Commute"}},
	{Name: "Personal Care", Subcategories: []string{}},
}
