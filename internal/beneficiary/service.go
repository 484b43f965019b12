package beneficiary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/config"
	util "github.com/opol-agri/rsbsa-lambda/internal/utils"
)

const invalidData = "The given data was invalid."

// Cipher protects the government id number at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

type UserLookup interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type BeneficiaryService interface {
	Create(ctx context.Context, actor *auth.Claims, req CreateBeneficiaryRequest) (*BeneficiaryResponse, error)
	Get(ctx context.Context, actor *auth.Claims, id uint) (*BeneficiaryResponse, error)
	GetByUser(ctx context.Context, actor *auth.Claims, userID uint) (*BeneficiaryResponse, error)
	Update(ctx context.Context, actor *auth.Claims, id uint, req UpdateBeneficiaryRequest) (*BeneficiaryResponse, error)
	Verify(ctx context.Context, actor *auth.Claims, id uint, req VerifyRequest) (*BeneficiaryResponse, error)
}

type beneficiaryService struct {
	repo   BeneficiaryRepository
	users  UserLookup
	cipher Cipher
	now    func() time.Time
}

func NewService(repo BeneficiaryRepository, users UserLookup, cipher Cipher) BeneficiaryService {
	return &beneficiaryService{repo: repo, users: users, cipher: cipher, now: time.Now}
}

func (s *beneficiaryService) Create(ctx context.Context, actor *auth.Claims, req CreateBeneficiaryRequest) (*BeneficiaryResponse, error) {
	log := config.WithContext(ctx)

	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	if !actor.IsStaff() && req.UserID != actor.UserID {
		return nil, apperror.Forbidden("You may only create beneficiary details for your own account")
	}

	exists, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to check user")
	}
	if !exists {
		return nil, apperror.Validation(invalidData, map[string]string{"user_id": "The selected user id is invalid."})
	}

	if _, err := s.repo.GetByUserID(ctx, req.UserID); err == nil {
		return nil, apperror.Conflict("Beneficiary details already exist for this user")
	} else if !errors.Is(err, ErrBeneficiaryNotFound) {
		return nil, apperror.Internal(err, "failed to check beneficiary")
	}

	birthDate, _ := util.ParseLocalDate(req.BirthDate)
	b := &BeneficiaryDetail{
		UserID:                 req.UserID,
		Fname:                  req.Fname,
		Mname:                  req.Mname,
		Lname:                  req.Lname,
		ExtensionName:          req.ExtensionName,
		Barangay:               req.Barangay,
		Municipality:           orDefault(req.Municipality, DefaultMunicipality),
		Province:               orDefault(req.Province, DefaultProvince),
		Region:                 orDefault(req.Region, DefaultRegion),
		ContactNumber:          req.ContactNumber,
		EmergencyContactNumber: req.EmergencyContactNumber,
		BirthDate:              birthDate,
		PlaceOfBirth:           req.PlaceOfBirth,
		Sex:                    Sex(req.Sex),
		CivilStatus:            CivilStatus(req.CivilStatus),
		NameOfSpouse:           req.NameOfSpouse,
		HighestEducation:       req.HighestEducation,
		Religion:               req.Religion,
		IsPWD:                  req.IsPWD,
		HasGovernmentID:        YesNo(orDefault(req.HasGovernmentID, string(No))),
		GovIDType:              req.GovIDType,
		IsAssociationMember:    YesNo(orDefault(req.IsAssociationMember, string(No))),
		AssociationName:        req.AssociationName,
		MothersMaidenName:      req.MothersMaidenName,
		IsHouseholdHead:        req.IsHouseholdHead,
		HouseholdHeadName:      req.HouseholdHeadName,
		DataSource:             DataSource(orDefault(req.DataSource, string(DataSourceSelfRegistration))),
	}

	if fields := s.checkRules(b, req.GovIDNumber); fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}
	if err := s.sealGovID(b, req.GovIDNumber); err != nil {
		return nil, err
	}
	s.track(b)

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateBeneficiary) {
			return nil, apperror.Conflict("Beneficiary details already exist for this user")
		}
		log.WithError(err).WithField("user_id", req.UserID).Error("Failed to create beneficiary")
		return nil, apperror.Internal(err, "failed to create beneficiary")
	}

	log.WithFields(logrus.Fields{"beneficiary_id": b.ID, "user_id": b.UserID}).Info("Beneficiary created")
	return s.toResponse(ctx, b), nil
}

func (s *beneficiaryService) Get(ctx context.Context, actor *auth.Claims, id uint) (*BeneficiaryResponse, error) {
	b, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, b), nil
}

func (s *beneficiaryService) GetByUser(ctx context.Context, actor *auth.Claims, userID uint) (*BeneficiaryResponse, error) {
	if !actor.IsStaff() && actor.UserID != userID {
		return nil, apperror.Forbidden("You may only view your own beneficiary details")
	}
	b, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrBeneficiaryNotFound) {
		return nil, apperror.NotFound("Beneficiary details not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load beneficiary")
	}
	return s.toResponse(ctx, b), nil
}

func (s *beneficiaryService) Update(ctx context.Context, actor *auth.Claims, id uint, req UpdateBeneficiaryRequest) (*BeneficiaryResponse, error) {
	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	b, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(b, req)

	govID := ""
	if req.GovIDNumber != nil {
		govID = *req.GovIDNumber
	} else if b.GovIDNumberEncrypted != "" {
		govID = s.openGovID(ctx, b)
	}
	if fields := s.checkRules(b, govID); fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}
	if err := s.sealGovID(b, govID); err != nil {
		return nil, err
	}
	s.track(b)

	if err := s.repo.Update(ctx, b); err != nil {
		config.WithContext(ctx).WithError(err).WithField("beneficiary_id", id).Error("Failed to update beneficiary")
		return nil, apperror.Internal(err, "failed to update beneficiary")
	}
	return s.toResponse(ctx, b), nil
}

func (s *beneficiaryService) Verify(ctx context.Context, actor *auth.Claims, id uint, req VerifyRequest) (*BeneficiaryResponse, error) {
	if !actor.IsStaff() {
		return nil, apperror.Forbidden("Only coordinators can verify profiles")
	}
	if fields, err := util.ValidateStruct(req); err != nil {
		return nil, apperror.Internal(err, "validation failed")
	} else if fields != nil {
		return nil, apperror.Validation(invalidData, fields)
	}

	b, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	verifier := actor.UserID
	b.IsProfileVerified = true
	b.ProfileVerifiedAt = &now
	b.ProfileVerifiedBy = &verifier
	if req.Notes != "" {
		notes := req.Notes
		b.VerificationNotes = &notes
	}
	b.ProfileCompletionStatus = CompletionVerified

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, apperror.Internal(err, "failed to verify beneficiary")
	}
	config.WithContext(ctx).WithFields(logrus.Fields{"beneficiary_id": id, "verified_by": verifier}).Info("Beneficiary verified")
	return s.toResponse(ctx, b), nil
}

func (s *beneficiaryService) load(ctx context.Context, actor *auth.Claims, id uint) (*BeneficiaryDetail, error) {
	b, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrBeneficiaryNotFound) {
		return nil, apperror.NotFound("Beneficiary details not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load beneficiary")
	}
	if !actor.IsStaff() && b.UserID != actor.UserID {
		return nil, apperror.Forbidden("You do not have access to these beneficiary details")
	}
	return b, nil
}

// checkRules enforces the conditional requirements that depend on other answers.
func (s *beneficiaryService) checkRules(b *BeneficiaryDetail, govID string) map[string]string {
	fields := map[string]string{}

	if b.HasGovernmentID == Yes {
		if b.GovIDType == "" {
			fields["gov_id_type"] = "The gov id type field is required when has government id is yes."
		}
		if govID == "" {
			fields["gov_id_number"] = "The gov id number field is required when has government id is yes."
		}
	}
	if b.IsAssociationMember == Yes && b.AssociationName == "" {
		fields["association_name"] = "The association name field is required when is association member is yes."
	}
	if b.CivilStatus == CivilStatusMarried && b.NameOfSpouse == "" {
		fields["name_of_spouse"] = "The name of spouse field is required when civil status is married."
	}
	if !b.IsHouseholdHead && b.HouseholdHeadName == "" {
		fields["household_head_name"] = "The household head name field is required when is household head is false."
	}
	if !b.BirthDate.IsZero() && b.BirthDate.After(s.now()) {
		fields["birth_date"] = "The birth date must be a date before today."
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *beneficiaryService) sealGovID(b *BeneficiaryDetail, govID string) error {
	if b.HasGovernmentID != Yes || govID == "" {
		b.GovIDType = ""
		b.GovIDNumberEncrypted = ""
		return nil
	}
	sealed, err := s.cipher.Encrypt(govID)
	if err != nil {
		return apperror.Internal(err, "failed to protect government id")
	}
	b.GovIDNumberEncrypted = sealed
	return nil
}

func (s *beneficiaryService) openGovID(ctx context.Context, b *BeneficiaryDetail) string {
	if b.GovIDNumberEncrypted == "" {
		return ""
	}
	plain, err := s.cipher.Decrypt(b.GovIDNumberEncrypted)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("beneficiary_id", b.ID).Error("Failed to decrypt government id")
		return ""
	}
	return plain
}

var trackedFields = []string{"barangay", "municipality", "contact_number", "birth_date", "sex", "civil_status"}

// track recomputes completion_tracking and the completion status. Verified profiles stay verified.
func (s *beneficiaryService) track(b *BeneficiaryDetail) {
	present := map[string]bool{
		"barangay":       b.Barangay != "",
		"municipality":   b.Municipality != "",
		"contact_number": b.ContactNumber != "",
		"birth_date":     !b.BirthDate.IsZero(),
		"sex":            b.Sex != "",
		"civil_status":   b.CivilStatus != "",
	}

	tracking := CompletionTracking{Completed: []string{}, Missing: []string{}}
	for _, f := range trackedFields {
		if present[f] {
			tracking.Completed = append(tracking.Completed, f)
		} else {
			tracking.Missing = append(tracking.Missing, f)
		}
	}
	tracking.Percentage = len(tracking.Completed) * 100 / len(trackedFields)

	raw, _ := json.Marshal(tracking)
	b.CompletionTracking = raw

	if b.IsProfileVerified {
		b.ProfileCompletionStatus = CompletionVerified
	} else if len(tracking.Missing) == 0 {
		b.ProfileCompletionStatus = CompletionCompleted
	} else {
		b.ProfileCompletionStatus = CompletionPending
	}
}

func applyUpdate(b *BeneficiaryDetail, req UpdateBeneficiaryRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.Fname, req.Fname)
	set(&b.Mname, req.Mname)
	set(&b.Lname, req.Lname)
	set(&b.ExtensionName, req.ExtensionName)
	set(&b.Barangay, req.Barangay)
	set(&b.Municipality, req.Municipality)
	set(&b.Province, req.Province)
	set(&b.Region, req.Region)
	set(&b.ContactNumber, req.ContactNumber)
	set(&b.EmergencyContactNumber, req.EmergencyContactNumber)
	set(&b.PlaceOfBirth, req.PlaceOfBirth)
	set(&b.NameOfSpouse, req.NameOfSpouse)
	set(&b.HighestEducation, req.HighestEducation)
	set(&b.Religion, req.Religion)
	set(&b.GovIDType, req.GovIDType)
	set(&b.AssociationName, req.AssociationName)
	set(&b.MothersMaidenName, req.MothersMaidenName)
	set(&b.HouseholdHeadName, req.HouseholdHeadName)

	if req.BirthDate != nil {
		if d, err := util.ParseLocalDate(*req.BirthDate); err == nil {
			b.BirthDate = d
		}
	}
	if req.Sex != nil {
		b.Sex = Sex(*req.Sex)
	}
	if req.CivilStatus != nil {
		b.CivilStatus = CivilStatus(*req.CivilStatus)
	}
	if req.IsPWD != nil {
		b.IsPWD = *req.IsPWD
	}
	if req.HasGovernmentID != nil {
		b.HasGovernmentID = YesNo(*req.HasGovernmentID)
	}
	if req.IsAssociationMember != nil {
		b.IsAssociationMember = YesNo(*req.IsAssociationMember)
	}
	if req.IsHouseholdHead != nil {
		b.IsHouseholdHead = *req.IsHouseholdHead
	}
}

func (s *beneficiaryService) toResponse(ctx context.Context, b *BeneficiaryDetail) *BeneficiaryResponse {
	return &BeneficiaryResponse{
		ID:                      b.ID,
		UserID:                  b.UserID,
		Fname:                   b.Fname,
		Mname:                   b.Mname,
		Lname:                   b.Lname,
		ExtensionName:           b.ExtensionName,
		FullName:                b.FullName(),
		Barangay:                b.Barangay,
		Municipality:            b.Municipality,
		Province:                b.Province,
		Region:                  b.Region,
		ContactNumber:           b.ContactNumber,
		EmergencyContactNumber:  b.EmergencyContactNumber,
		BirthDate:               b.BirthDate.String(),
		Age:                     b.BirthDate.AgeOn(s.now()),
		PlaceOfBirth:            b.PlaceOfBirth,
		Sex:                     b.Sex,
		CivilStatus:             b.CivilStatus,
		NameOfSpouse:            b.NameOfSpouse,
		HighestEducation:        b.HighestEducation,
		Religion:                b.Religion,
		IsPWD:                   b.IsPWD,
		HasGovernmentID:         b.HasGovernmentID,
		GovIDType:               b.GovIDType,
		GovIDNumber:             s.openGovID(ctx, b),
		IsAssociationMember:     b.IsAssociationMember,
		AssociationName:         b.AssociationName,
		MothersMaidenName:       b.MothersMaidenName,
		IsHouseholdHead:         b.IsHouseholdHead,
		HouseholdHeadName:       b.HouseholdHeadName,
		ProfileCompletionStatus: b.ProfileCompletionStatus,
		IsProfileVerified:       b.IsProfileVerified,
		VerificationNotes:       b.VerificationNotes,
		ProfileVerifiedAt:       b.ProfileVerifiedAt,
		ProfileVerifiedBy:       b.ProfileVerifiedBy,
		DataSource:              b.DataSource,
		CompletionTracking:      b.CompletionTracking,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
