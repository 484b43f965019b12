package beneficiary

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type CivilStatus string

const (
	CivilStatusSingle    CivilStatus = "single"
	CivilStatusMarried   CivilStatus = "married"
	CivilStatusWidowed   CivilStatus = "widowed"
	CivilStatusSeparated CivilStatus = "separated"
	CivilStatusDivorced  CivilStatus = "divorced"
)

type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

type CompletionStatus string

const (
	CompletionPending   CompletionStatus = "pending"
	CompletionCompleted CompletionStatus = "completed"
	CompletionVerified  CompletionStatus = "verified"
)

type DataSource string

const (
	DataSourceSelfRegistration DataSource = "self_registration"
	DataSourceCoordinatorInput DataSource = "coordinator_input"
)

const (
	DefaultMunicipality = "Opol"
	DefaultProvince     = "Misamis Oriental"
	DefaultRegion       = "Region X (Northern Mindanao)"
)
