package farmparcel

import (
	"time"

	"gorm.io/gorm"
)

const squareMetersPerHectare = 10000

type FarmParcel struct {
	ID                          uint       `gorm:"primaryKey"`
	FarmProfileID               uint       `gorm:"not null;index"`
	ParcelNumber                string     `gorm:"size:50"`
	Barangay                    string     `gorm:"size:100;not null"`
	FarmArea                    float64    `gorm:"type:numeric(10,2);not null"`
	TenureType                  TenureType `gorm:"size:20;not null"`
	LandownerName               string     `gorm:"size:255"`
	OwnershipDocumentNumber     string     `gorm:"size:100"`
	IsAncestralDomain           bool       `gorm:"not null;default:false"`
	IsAgrarianReformBeneficiary bool       `gorm:"not null;default:false"`
	FarmType                    FarmType   `gorm:"size:20;not null"`
	IsOrganicPractitioner       bool       `gorm:"not null;default:false"`
	Remarks                     string     `gorm:"type:text"`
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
	DeletedAt                   gorm.DeletedAt `gorm:"index"`
}

func (p *FarmParcel) IsOwned() bool {
	return p.TenureType == TenureRegisteredOwner
}

func (p *FarmParcel) IsRented() bool {
	return p.TenureType == TenureTenant || p.TenureType == TenureLessee
}

func (p *FarmParcel) HasDocumentation() bool {
	return p.OwnershipDocumentNumber != ""
}

func (p *FarmParcel) FarmAreaSquareMeters() float64 {
	return p.FarmArea * squareMetersPerHectare
}

// TotalArea sums the hectares of parcels.
func TotalArea(parcels []FarmParcel) float64 {
	var total float64
	for _, p := range parcels {
		total += p.FarmArea
	}
	return total
}
