package farmprofile

const (
	CategoryFarmer     uint = 1
	CategoryFisherfolk uint = 2
	CategoryFarmworker uint = 3
	CategoryAgriYouth  uint = 4
)

// DefaultCategories are seeded at startup with fixed ids.
var DefaultCategories = []LivelihoodCategory{
	{ID: CategoryFarmer, Code: "farmer", Name: "Farmer", Description: "Rice, corn, other crops, livestock or poultry"},
	{ID: CategoryFisherfolk, Code: "fisherfolk", Name: "Fisherfolk", Description: "Fish capture, aquaculture or fish processing"},
	{ID: CategoryFarmworker, Code: "farmworker", Name: "Farmworker/Laborer", Description: "Land preparation, cultivation or harvesting"},
	{ID: CategoryAgriYouth, Code: "agri_youth", Name: "Agri-Youth", Description: "Youth in farming households or agricultural programs"},
}
