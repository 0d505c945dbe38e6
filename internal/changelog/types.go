package changelog

// Commit is one entry from the commit log between two tags, reduced to
// what rendering needs.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	Subject     string
}

// Category is one of the five fixed changelog categories. The zero value
// is NewFeatures; commits whose subject matches no known prefix land in
// OtherChanges.
type Category int

const (
	NewFeatures Category = iota
	BugFixes
	Maintenance
	Documentation
	OtherChanges
)

// Label returns the section heading text for the category.
func (c Category) Label() string {
	switch c {
	case NewFeatures:
		return "New features"
	case BugFixes:
		return "Bug fixes"
	case Maintenance:
		return "Maintenance"
	case Documentation:
		return "Documentation"
	default:
		return "Other changes"
	}
}

// Categories returns all categories in their fixed display order.
func Categories() []Category {
	return []Category{NewFeatures, BugFixes, Maintenance, Documentation, OtherChanges}
}
