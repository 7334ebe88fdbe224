package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/repositories"
)

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *productRepoMock) List(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *productRepoMock) FindByID(ctx context.Context, id models.ID) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, id models.ID, fields models.ProductFields) (models.Product, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *productRepoMock) Delete(ctx context.Context, id models.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, id models.ID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userRepoMock) FindByField(ctx context.Context, field repositories.UserField, value string) (models.User, error) {
	args := m.Called(ctx, field, value)
	return args.Get(0).(models.User), args.Error(1)
}

type recordedEvent struct {
	name    string
	payload interface{}
}

type publisherStub struct{ events []recordedEvent }

func (p *publisherStub) Fire(name string, payload interface{}) {
	p.events = append(p.events, recordedEvent{name: name, payload: payload})
}
