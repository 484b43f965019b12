package farmparcel

type TenureType string

const (
	TenureRegisteredOwner TenureType = "registered_owner"
	TenureTenant          TenureType = "tenant"
	TenureLessee          TenureType = "lessee"
)

var AllTenureTypes = []TenureType{TenureRegisteredOwner, TenureTenant, TenureLessee}

func (t TenureType) IsValid() bool {
	for _, v := range AllTenureTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t TenureType) Display() string {
	switch t {
	case TenureRegisteredOwner:
		return "Registered Owner"
	case TenureTenant:
		return "Tenant"
	case TenureLessee:
		return "Lessee"
	default:
		return string(t)
	}
}

type FarmType string

const (
	FarmTypeIrrigated      FarmType = "irrigated"
	FarmTypeRainfedUpland  FarmType = "rainfed_upland"
	FarmTypeRainfedLowland FarmType = "rainfed_lowland"
)

var AllFarmTypes = []FarmType{FarmTypeIrrigated, FarmTypeRainfedUpland, FarmTypeRainfedLowland}

func (f FarmType) IsValid() bool {
	for _, v := range AllFarmTypes {
		if v == f {
			return true
		}
	}
	return false
}

func (f FarmType) Display() string {
	switch f {
	case FarmTypeIrrigated:
		return "Irrigated"
	case FarmTypeRainfedUpland:
		return "Rainfed Upland"
	case FarmTypeRainfedLowland:
		return "Rainfed Lowland"
	default:
		return string(f)
	}
}
