package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/shashiranjanraj/estoque/app/models"
)

// AdapterSuite is the behaviour every backend must share. Backends embed it
// and set newAdapter.
type AdapterSuite struct {
	suite.Suite

	newAdapter func() Adapter
	adapter    Adapter
	ctx        context.Context
}

func (s *AdapterSuite) SetupTest() {
	s.ctx = context.Background()
	s.adapter = s.newAdapter()
	s.Require().NoError(s.adapter.Migrate(s.ctx))
}

func (s *AdapterSuite) TearDownTest() {
	if s.adapter != nil {
		s.NoError(s.adapter.Close(s.ctx))
	}
}

func (s *AdapterSuite) createProduct(name string, price float64, qty int) models.Product {
	p := models.Product{Name: name, Description: name + " desc", Price: price, Quantity: qty}
	s.Require().NoError(s.adapter.Products().Create(s.ctx, &p))
	return p
}

func (s *AdapterSuite) TestMigrateTwiceIsHarmless() {
	s.NoError(s.adapter.Migrate(s.ctx))
	s.NoError(s.adapter.Ping(s.ctx))
}

func (s *AdapterSuite) TestCreateAssignsIdentityAndTimestamps() {
	before := time.Now().UTC().Add(-time.Second)
	p := s.createProduct("Caneta", 2.5, 10)

	s.False(p.ID.IsZero())
	s.True(p.CreatedAt.After(before))
	s.Equal(p.CreatedAt, p.UpdatedAt)
	s.Equal("Caneta", p.Name)
	s.Equal(2.5, p.Price)
	s.Equal(10, p.Quantity)
}

func (s *AdapterSuite) TestFindByIDRoundTrip() {
	created := s.createProduct("Lápis", 1.25, 3)

	found, err := s.adapter.Products().FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal(created.Name, found.Name)
	s.Equal(created.Description, found.Description)
	s.Equal(created.Price, found.Price)
	s.Equal(created.Quantity, found.Quantity)
	s.WithinDuration(created.CreatedAt, found.CreatedAt, time.Millisecond)
}

func (s *AdapterSuite) TestFindByIDUnknownAndMalformed() {
	s.createProduct("Borracha", 0.5, 1)

	for _, id := range []models.ID{"999999", "abc", "", "0", "65f0c0ffee0000000000beef"} {
		_, err := s.adapter.Products().FindByID(s.ctx, id)
		s.ErrorIs(err, ErrNotFound, "id %q", id)
	}
}

func (s *AdapterSuite) TestListNewestFirst() {
	empty, err := s.adapter.Products().List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	first := s.createProduct("Primeiro", 1, 1)
	time.Sleep(2 * time.Millisecond)
	second := s.createProduct("Segundo", 2, 2)

	list, err := s.adapter.Products().List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
}

func (s *AdapterSuite) TestUpdateReplacesFieldsAndKeepsCreatedAt() {
	created := s.createProduct("Caderno", 10, 5)
	time.Sleep(2 * time.Millisecond)

	updated, err := s.adapter.Products().Update(s.ctx, created.ID, models.ProductFields{
		Name:        "Caderno 200 folhas",
		Description: "",
		Price:       12.9,
		Quantity:    0,
	})
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal("Caderno 200 folhas", updated.Name)
	s.Equal("", updated.Description)
	s.Equal(12.9, updated.Price)
	s.Equal(0, updated.Quantity)
	s.WithinDuration(created.CreatedAt, updated.CreatedAt, time.Millisecond)
	s.True(updated.UpdatedAt.After(created.UpdatedAt))

	found, err := s.adapter.Products().FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Caderno 200 folhas", found.Name)
	s.Equal(0, found.Quantity)
}

func (s *AdapterSuite) TestUpdateUnknownID() {
	_, err := s.adapter.Products().Update(s.ctx, "424242", models.ProductFields{Name: "x", Price: 1})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.adapter.Products().Update(s.ctx, "not-an-id", models.ProductFields{Name: "x", Price: 1})
	s.ErrorIs(err, ErrNotFound)
}

func (s *AdapterSuite) TestDeleteThenDeleteAgain() {
	p := s.createProduct("Régua", 3, 1)

	s.Require().NoError(s.adapter.Products().Delete(s.ctx, p.ID))

	_, err := s.adapter.Products().FindByID(s.ctx, p.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.adapter.Products().Delete(s.ctx, p.ID), ErrNotFound)
}

func (s *AdapterSuite) TestUserCreateAndLookup() {
	u := models.User{Username: "ana", Email: "ana@example.com", Password: "segredo"}
	s.Require().NoError(s.adapter.Users().Create(s.ctx, &u))
	s.False(u.ID.IsZero())
	s.False(u.CreatedAt.IsZero())

	byName, err := s.adapter.Users().FindByField(s.ctx, FieldUsername, "ana")
	s.Require().NoError(err)
	s.Equal(u.ID, byName.ID)
	s.Equal("segredo", byName.Password)

	byEmail, err := s.adapter.Users().FindByField(s.ctx, FieldEmail, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)

	byID, err := s.adapter.Users().FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("ana", byID.Username)

	_, err = s.adapter.Users().FindByField(s.ctx, FieldUsername, "bruno")
	s.ErrorIs(err, ErrNotFound)
}

func (s *AdapterSuite) TestUserUniqueness() {
	first := models.User{Username: "carla", Email: "carla@example.com", Password: "x"}
	s.Require().NoError(s.adapter.Users().Create(s.ctx, &first))

	sameName := models.User{Username: "carla", Email: "outra@example.com", Password: "x"}
	err := s.adapter.Users().Create(s.ctx, &sameName)
	s.True(errors.Is(err, ErrDuplicate), "got %v", err)

	sameEmail := models.User{Username: "carla2", Email: "carla@example.com", Password: "x"}
	err = s.adapter.Users().Create(s.ctx, &sameEmail)
	s.True(errors.Is(err, ErrDuplicate), "got %v", err)
}

func (s *AdapterSuite) TestCanceledContextIsUnavailable() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.adapter.Products().List(ctx)
	s.ErrorIs(err, ErrUnavailable)
}
