package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/core/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProfileServiceTestSuite struct {
	suite.Suite
	profileRepo  *MockProfileRepository
	currencyRepo *MockCurrencyRepository
	service      portssvc.ProfileSvcFacade
}

func (suite *ProfileServiceTestSuite) SetupTest() {
	suite.profileRepo = new(MockProfileRepository)
	suite.currencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewProfileService(suite.profileRepo, services.NewCurrencyService(suite.currencyRepo), "NIO")
}

func (suite *ProfileServiceTestSuite) TestGetProfile_DefaultsWhenMissing() {
	ctx := context.Background()
	suite.profileRepo.On("FindProfile", ctx).Return(nil, apperrors.ErrNotFound).Once()

	profile, err := suite.service.GetProfile(ctx)

	suite.Require().NoError(err)
	suite.Equal(domain.DefaultProfileID, profile.ProfileID)
	suite.Equal("NIO", profile.BaseCurrency)
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile() {
	ctx := context.Background()
	req := dto.UpdateProfileRequest{BusinessName: "Préstamos Ana", OwnerName: "Ana López", Cedula: "0010101900001a", City: "León"}
	suite.profileRepo.On("FindProfile", ctx).Return(nil, apperrors.ErrNotFound).Once()
	suite.currencyRepo.On("FindCurrencyByCode", ctx, "NIO").Return(nio, nil).Once()
	suite.profileRepo.On("SaveProfile", ctx, mock.MatchedBy(func(p domain.CompanyProfile) bool {
		return p.Cedula == "001-010190-0001A" && p.BaseCurrency == "NIO" && p.CreatedBy == "user-1"
	})).Return(nil).Once()

	profile, err := suite.service.UpdateProfile(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("León", profile.City)
	suite.profileRepo.AssertExpectations(suite.T())
}

func (suite *ProfileServiceTestSuite) TestUpdateProfile_UnknownBaseCurrency() {
	ctx := context.Background()
	req := dto.UpdateProfileRequest{BusinessName: "B", OwnerName: "O", BaseCurrency: "XYZ"}
	suite.profileRepo.On("FindProfile", ctx).Return(&domain.CompanyProfile{ProfileID: domain.DefaultProfileID}, nil).Once()
	suite.currencyRepo.On("FindCurrencyByCode", ctx, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateProfile(ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.profileRepo.AssertNotCalled(suite.T(), "SaveProfile", mock.Anything, mock.Anything)
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}
