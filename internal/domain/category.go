package domain

// Category is a transaction classification label from a closed set.
type Category string

const (
	CategoryRevenue           Category = "Revenue"
	CategoryOperatingExpenses Category = "Operating Expenses"
	CategoryLoanRepayment     Category = "Loan Repayment"
	CategoryPersonalOther     Category = "Personal/Other"
	CategoryUncategorized     Category = "Uncategorized"
)

// ClassifiableCategories are the labels a classifier may return, in the
// order ties are resolved.
var ClassifiableCategories = []Category{
	CategoryRevenue,
	CategoryOperatingExpenses,
	CategoryLoanRepayment,
	CategoryPersonalOther,
}

// ParseCategory returns the category whose label equals s exactly.
func ParseCategory(s string) (Category, bool) {
	for _, c := range ClassifiableCategories {
		if string(c) == s {
			return c, true
		}
	}
	if s == string(CategoryUncategorized) {
		return CategoryUncategorized, true
	}
	return "", false
}

// IsClassifiable reports whether c is one of the four labels a classifier may assign.
func (c Category) IsClassifiable() bool {
	for _, v := range ClassifiableCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
