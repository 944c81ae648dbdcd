package inventory

// Cache key families, one per logical query identity.
const (
	FamilyRadios        = "radios"
	FamilyRadioStats    = "radio-stats"
	FamilyRadioHistory  = "radio-history"
	FamilyAccessories   = "accessories"
	FamilyIssues        = "issues"
	FamilyInstallations = "installations"
	FamilyBrands        = "brands"
	FamilyBrandStats    = "brand-stats"
	FamilyCategories    = "categories"
	FamilyModels        = "models"
	FamilyRadioBrands   = "brands-with-radios"
	FamilyRadioModels   = "radio-models"
	FamilyDashboard     = "dashboard"
)
