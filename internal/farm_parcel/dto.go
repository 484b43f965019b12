package farmparcel

import "time"

type ParcelInput struct {
	ID                          *uint   `json:"id"`
	ParcelNumber                string  `json:"parcel_number" validate:"max=50"`
	Barangay                    string  `json:"barangay" validate:"required,max=100"`
	FarmArea                    float64 `json:"farm_area" validate:"gt=0,lte=99999999"`
	TenureType                  string  `json:"tenure_type" validate:"required,oneof=registered_owner tenant lessee"`
	LandownerName               string  `json:"landowner_name" validate:"required_unless=TenureType registered_owner,max=255"`
	OwnershipDocumentNumber     string  `json:"ownership_document_number" validate:"max=100"`
	IsAncestralDomain           bool    `json:"is_ancestral_domain"`
	IsAgrarianReformBeneficiary bool    `json:"is_agrarian_reform_beneficiary"`
	FarmType                    string  `json:"farm_type" validate:"required,oneof=irrigated rainfed_upland rainfed_lowland"`
	IsOrganicPractitioner       bool    `json:"is_organic_practitioner"`
	Remarks                     string  `json:"remarks" validate:"max=1000"`
}

type SyncParcelsRequest struct {
	Parcels []ParcelInput `json:"parcels" validate:"required,min=1,dive"`
}

type ParcelResponse struct {
	ID                          uint       `json:"id"`
	FarmProfileID               uint       `json:"farm_profile_id"`
	ParcelNumber                string     `json:"parcel_number"`
	Barangay                    string     `json:"barangay"`
	FarmArea                    float64    `json:"farm_area"`
	FarmAreaSquareMeters        float64    `json:"farm_area_square_meters"`
	TenureType                  TenureType `json:"tenure_type"`
	TenureTypeDisplay           string     `json:"tenure_type_display"`
	LandownerName               string     `json:"landowner_name"`
	OwnershipDocumentNumber     string     `json:"ownership_document_number"`
	IsAncestralDomain           bool       `json:"is_ancestral_domain"`
	IsAgrarianReformBeneficiary bool       `json:"is_agrarian_reform_beneficiary"`
	FarmType                    FarmType   `json:"farm_type"`
	FarmTypeDisplay             string     `json:"farm_type_display"`
	IsOrganicPractitioner       bool       `json:"is_organic_practitioner"`
	Remarks                     string     `json:"remarks"`
	IsOwned                     bool       `json:"is_owned"`
	IsRented                    bool       `json:"is_rented"`
	HasDocumentation            bool       `json:"has_documentation"`
	CreatedAt                   time.Time  `json:"created_at"`
	UpdatedAt                   time.Time  `json:"updated_at"`
}

func ToResponse(p *FarmParcel) ParcelResponse {
	return ParcelResponse{
		ID:                          p.ID,
		FarmProfileID:               p.FarmProfileID,
		ParcelNumber:                p.ParcelNumber,
		Barangay:                    p.Barangay,
		FarmArea:                    p.FarmArea,
		FarmAreaSquareMeters:        p.FarmAreaSquareMeters(),
		TenureType:                  p.TenureType,
		TenureTypeDisplay:           p.TenureType.Display(),
		LandownerName:               p.LandownerName,
		OwnershipDocumentNumber:     p.OwnershipDocumentNumber,
		IsAncestralDomain:           p.IsAncestralDomain,
		IsAgrarianReformBeneficiary: p.IsAgrarianReformBeneficiary,
		FarmType:                    p.FarmType,
		FarmTypeDisplay:             p.FarmType.Display(),
		IsOrganicPractitioner:       p.IsOrganicPractitioner,
		Remarks:                     p.Remarks,
		IsOwned:                     p.IsOwned(),
		IsRented:                    p.IsRented(),
		HasDocumentation:            p.HasDocumentation(),
		CreatedAt:                   p.CreatedAt,
		UpdatedAt:                   p.UpdatedAt,
	}
}

func ToResponses(parcels []FarmParcel) []ParcelResponse {
	out := make([]ParcelResponse, 0, len(parcels))
	for i := range parcels {
		out = append(out, ToResponse(&parcels[i]))
	}
	return out
}
