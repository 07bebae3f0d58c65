package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/core/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ClientServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockClientRepository
	mockCache *MockCache
	service   portssvc.ClientSvcFacade
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockClientRepository)
	suite.mockCache = new(MockCache)
	suite.service = services.NewClientService(suite.mockRepo, services.WithClientCache(suite.mockCache))
}

func (suite *ClientServiceTestSuite) TestCreateClient_NormalizesCedula() {
	ctx := context.Background()
	req := dto.CreateClientRequest{FirstName: " Ana ", LastName: "López", Cedula: "0010101900001a", Phone: "8888-0000"}
	suite.mockCache.On("DeletePrefix", ctx, "banquito:summary:").Return(nil).Once()

	suite.mockRepo.On("SaveClient", ctx, mock.MatchedBy(func(c domain.Client) bool {
		return c.Cedula == "001-010190-0001A" && c.FirstName == "Ana" && c.IsActive && c.CreatedBy == "user-1"
	})).Return(nil).Once()

	client, err := suite.service.CreateClient(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(client.ClientID)
	suite.Equal("Ana López", client.FullName())
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestCreateClient_InvalidCedula() {
	req := dto.CreateClientRequest{FirstName: "Ana", LastName: "López", Cedula: "12345"}

	_, err := suite.service.CreateClient(context.Background(), req, "user-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveClient", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestCreateClient_DuplicateCedula() {
	ctx := context.Background()
	req := dto.CreateClientRequest{FirstName: "Ana", LastName: "López", Cedula: "001-010190-0001A"}
	suite.mockRepo.On("SaveClient", ctx, mock.AnythingOfType("domain.Client")).
		Return(fmt.Errorf("cedula already registered: %w", apperrors.ErrDuplicate)).Once()

	_, err := suite.service.CreateClient(ctx, req, "user-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockCache.AssertNotCalled(suite.T(), "DeletePrefix", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestUpdateClient_PartialFields() {
	ctx := context.Background()
	existing := &domain.Client{ClientID: "c-1", FirstName: "Ana", LastName: "López", Cedula: "001-010190-0001A", Phone: "1", IsActive: true}
	phone := "8888-1111"
	inactive := false
	suite.mockRepo.On("FindClientByID", ctx, "c-1").Return(existing, nil).Once()
	suite.mockCache.On("DeletePrefix", ctx, "banquito:summary:").Return(nil).Once()
	suite.mockRepo.On("UpdateClient", ctx, mock.MatchedBy(func(c domain.Client) bool {
		return c.Phone == phone && !c.IsActive && c.FirstName == "Ana" && c.LastUpdatedBy == "user-2"
	})).Return(nil).Once()

	client, err := suite.service.UpdateClient(ctx, "c-1", dto.UpdateClientRequest{Phone: &phone, IsActive: &inactive}, "user-2")

	suite.Require().NoError(err)
	suite.Equal(phone, client.Phone)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestUpdateClient_EmptyName() {
	ctx := context.Background()
	existing := &domain.Client{ClientID: "c-1", FirstName: "Ana", LastName: "López"}
	blank := "  "
	suite.mockRepo.On("FindClientByID", ctx, "c-1").Return(existing, nil).Once()

	_, err := suite.service.UpdateClient(ctx, "c-1", dto.UpdateClientRequest{FirstName: &blank}, "user-2")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ClientServiceTestSuite) TestDeleteClient_InvalidatesSummaries() {
	ctx := context.Background()
	suite.mockRepo.On("DeleteClient", ctx, "c-1").Return(nil).Once()
	suite.mockCache.On("DeletePrefix", ctx, "banquito:summary:").Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteClient(ctx, "c-1", "user-1"))

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestDeleteClient_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("DeleteClient", ctx, "nope").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteClient(ctx, "nope", "user-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCache.AssertNotCalled(suite.T(), "DeletePrefix", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestListClients_PassesFilter() {
	ctx := context.Background()
	active := true
	filter := domain.ClientFilter{Query: "ana", IsActive: &active, Limit: 10}
	suite.mockRepo.On("ListClients", ctx, filter).Return([]domain.Client{{ClientID: "c-1"}}, nil).Once()

	clients, err := suite.service.ListClients(ctx, dto.ListClientsParams{Q: " ana ", Active: &active, Limit: 10})

	suite.Require().NoError(err)
	suite.Len(clients, 1)
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}
