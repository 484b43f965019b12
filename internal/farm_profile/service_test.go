package farmprofile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opol-agri/rsbsa-lambda/internal/apperror"
	"github.com/opol-agri/rsbsa-lambda/internal/auth"
	"github.com/opol-agri/rsbsa-lambda/internal/beneficiary"
	farmprofile "github.com/opol-agri/rsbsa-lambda/internal/farm_profile"
)

type beneficiaries map[uint]*beneficiary.BeneficiaryDetail

func (b beneficiaries) GetByID(_ context.Context, id uint) (*beneficiary.BeneficiaryDetail, error) {
	if d, ok := b[id]; ok {
		return d, nil
	}
	return nil, beneficiary.ErrBeneficiaryNotFound
}

type memoryRepo struct {
	bens     beneficiaries
	profiles map[uint]*farmprofile.FarmProfile
	nextID   uint
}

func (m *memoryRepo) Create(_ context.Context, p *farmprofile.FarmProfile) error {
	for _, existing := range m.profiles {
		if existing.BeneficiaryID == p.BeneficiaryID {
			return farmprofile.ErrDuplicateProfile
		}
	}
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uint) (*farmprofile.FarmProfile, error) {
	if p, ok := m.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, farmprofile.ErrFarmProfileNotFound
}

func (m *memoryRepo) GetDetailed(ctx context.Context, id uint) (*farmprofile.FarmProfile, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Beneficiary = m.bens[p.BeneficiaryID]
	for _, c := range farmprofile.DefaultCategories {
		if c.ID == p.LivelihoodCategoryID {
			cat := c
			p.LivelihoodCategory = &cat
		}
	}
	return p, nil
}

func (m *memoryRepo) GetByBeneficiaryID(ctx context.Context, beneficiaryID uint) (*farmprofile.FarmProfile, error) {
	for id, p := range m.profiles {
		if p.BeneficiaryID == beneficiaryID {
			return m.GetDetailed(ctx, id)
		}
	}
	return nil, farmprofile.ErrFarmProfileNotFound
}

func (m *memoryRepo) ChangeCategory(_ context.Context, id, categoryID uint) error {
	p, ok := m.profiles[id]
	if !ok {
		return farmprofile.ErrFarmProfileNotFound
	}
	p.LivelihoodCategoryID = categoryID
	if categoryID != farmprofile.CategoryFarmer {
		p.FarmerDetails = nil
	}
	if categoryID != farmprofile.CategoryFisherfolk {
		p.FisherfolkDetails = nil
	}
	if categoryID != farmprofile.CategoryFarmworker {
		p.FarmworkerDetails = nil
	}
	if categoryID != farmprofile.CategoryAgriYouth {
		p.AgriYouthDetails = nil
	}
	return nil
}

func (m *memoryRepo) SaveLivelihood(_ context.Context, profileID uint, detail any) error {
	p := m.profiles[profileID]
	p.FarmerDetails, p.FisherfolkDetails, p.FarmworkerDetails, p.AgriYouthDetails = nil, nil, nil, nil
	switch d := detail.(type) {
	case *farmprofile.FarmerDetails:
		p.FarmerDetails = d
	case *farmprofile.FisherfolkDetails:
		p.FisherfolkDetails = d
	case *farmprofile.FarmworkerDetails:
		p.FarmworkerDetails = d
	case *farmprofile.AgriYouthDetails:
		p.AgriYouthDetails = d
	}
	return nil
}

func (m *memoryRepo) ListCategories(context.Context) ([]farmprofile.LivelihoodCategory, error) {
	return farmprofile.DefaultCategories, nil
}

func (m *memoryRepo) CategoryExists(_ context.Context, id uint) (bool, error) {
	return id >= 1 && id <= 4, nil
}

func (m *memoryRepo) OwnerUserID(_ context.Context, profileID uint) (uint, bool, error) {
	p, ok := m.profiles[profileID]
	if !ok {
		return 0, false, nil
	}
	return m.bens[p.BeneficiaryID].UserID, true, nil
}

var owner = &auth.Claims{UserID: 7, Role: auth.RoleBeneficiary}

func setup() (farmprofile.FarmProfileService, *memoryRepo) {
	bens := beneficiaries{
		3: {ID: 3, UserID: 7},
		4: {ID: 4, UserID: 8},
	}
	repo := &memoryRepo{bens: bens, profiles: map[uint]*farmprofile.FarmProfile{}}
	return farmprofile.NewService(repo, bens), repo
}

func TestCreateFarmProfile(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	resp, err := svc.Create(ctx, owner, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 3, LivelihoodCategoryID: farmprofile.CategoryFarmer})
	require.NoError(t, err)
	assert.Equal(t, "Farmer", resp.LivelihoodCategoryName)
	assert.Equal(t, 0, resp.ParcelCount)
	assert.Nil(t, resp.LivelihoodDetail)

	_, err = svc.Create(ctx, owner, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 3, LivelihoodCategoryID: farmprofile.CategoryFarmer})
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))

	_, err = svc.Create(ctx, owner, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 4, LivelihoodCategoryID: farmprofile.CategoryFarmer})
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

	var appErr *apperror.Error
	_, err = svc.Create(ctx, owner, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 99, LivelihoodCategoryID: 9})
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "beneficiary_id")

	_, err = svc.Create(ctx, &auth.Claims{UserID: 1, Role: auth.RoleAdmin}, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 4, LivelihoodCategoryID: 9})
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "livelihood_category_id")
}

func TestSaveLivelihood(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	profile, err := svc.Create(ctx, owner, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 3, LivelihoodCategoryID: farmprofile.CategoryFisherfolk})
	require.NoError(t, err)

	t.Run("MismatchedVariant", func(t *testing.T) {
		_, err := svc.SaveLivelihood(ctx, owner, profile.ID, farmprofile.SaveLivelihoodRequest{
			Farmer: &farmprofile.FarmerInput{IsRice: true},
		})
		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "farmer")
		assert.Contains(t, appErr.Fields, "fisherfolk")
	})

	t.Run("NothingSelected", func(t *testing.T) {
		_, err := svc.SaveLivelihood(ctx, owner, profile.ID, farmprofile.SaveLivelihoodRequest{
			Fisherfolk: &farmprofile.FisherfolkInput{},
		})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("Saved", func(t *testing.T) {
		resp, err := svc.SaveLivelihood(ctx, owner, profile.ID, farmprofile.SaveLivelihoodRequest{
			Fisherfolk: &farmprofile.FisherfolkInput{IsFishCapture: true, OtherFishingDescription: "gleaning"},
		})
		require.NoError(t, err)
		detail, ok := resp.LivelihoodDetail.(*farmprofile.FisherfolkDetails)
		require.True(t, ok)
		assert.True(t, detail.IsFishCapture)
		assert.Equal(t, profile.ID, detail.FarmProfileID)
	})

	t.Run("CategoryChangeDropsDetails", func(t *testing.T) {
		resp, err := svc.Update(ctx, owner, profile.ID, farmprofile.UpdateFarmProfileRequest{LivelihoodCategoryID: farmprofile.CategoryFarmworker})
		require.NoError(t, err)
		assert.Equal(t, farmprofile.CategoryFarmworker, resp.LivelihoodCategoryID)
		assert.Nil(t, resp.LivelihoodDetail)
	})
}

func TestFarmProfileAccess(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	profile, err := svc.Create(ctx, owner, farmprofile.CreateFarmProfileRequest{BeneficiaryID: 3, LivelihoodCategoryID: farmprofile.CategoryFarmer})
	require.NoError(t, err)

	stranger := &auth.Claims{UserID: 8, Role: auth.RoleBeneficiary}
	_, err = svc.Get(ctx, stranger, profile.ID)
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

	_, err = svc.GetByBeneficiary(ctx, stranger, 3)
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

	got, err := svc.GetByBeneficiary(ctx, &auth.Claims{UserID: 1, Role: auth.RoleCoordinator}, 3)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)

	_, err = svc.Get(ctx, owner, 404)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}
