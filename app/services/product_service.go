package services

import (
	"context"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/validate"
)

// Product change events.
const (
	EventProductCreated = "produto.criado"
	EventProductUpdated = "produto.atualizado"
	EventProductDeleted = "produto.removido"
)

// ProductEvent is the payload of every product change event. Deletes carry
// only ID.
type ProductEvent struct {
	Event   string          `json:"evento"`
	ID      models.ID       `json:"id"`
	Product *models.Product `json:"produto,omitempty"`
}

// Publisher is the part of an event bus the services need.
type Publisher interface {
	Fire(event string, payload interface{})
}

type ProductService struct {
	repo   repositories.ProductRepository
	events Publisher
}

// NewProductService builds the service. events may be nil.
func NewProductService(repo repositories.ProductRepository, events Publisher) *ProductService {
	return &ProductService{repo: repo, events: events}
}

// List returns every product, newest first.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fromRepository(err, msgProductNotFound, msgListProductsFailed)
	}
	return products, nil
}

func (s *ProductService) Find(ctx context.Context, id models.ID) (models.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, fromRepository(err, msgProductNotFound, msgFindProductFailed)
	}
	return p, nil
}

// Create validates in and stores a new product. Storage is not touched when
// validation fails.
func (s *ProductService) Create(ctx context.Context, in requests.ProductRequest) (models.Product, error) {
	fields, err := productFields(in)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Quantity:    fields.Quantity,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return models.Product{}, fromRepository(err, msgProductNotFound, msgCreateProductFailed)
	}

	logger.WithCtx(ctx).Info("produto criado", "id", p.ID.String())
	s.publish(EventProductCreated, p.ID, &p)
	return p, nil
}

// Update validates in and replaces the mutable fields of product id.
func (s *ProductService) Update(ctx context.Context, id models.ID, in requests.ProductRequest) (models.Product, error) {
	fields, err := productFields(in)
	if err != nil {
		return models.Product{}, err
	}

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return models.Product{}, fromRepository(err, msgProductNotFound, msgUpdateProductFailed)
	}

	logger.WithCtx(ctx).Info("produto atualizado", "id", p.ID.String())
	s.publish(EventProductUpdated, p.ID, &p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id models.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepository(err, msgProductNotFound, msgDeleteProductFailed)
	}

	logger.WithCtx(ctx).Info("produto removido", "id", id.String())
	s.publish(EventProductDeleted, id, nil)
	return nil
}

func (s *ProductService) publish(name string, id models.ID, p *models.Product) {
	if s.events == nil {
		return
	}
	s.events.Fire(name, ProductEvent{Event: name, ID: id, Product: p})
}

func productFields(in requests.ProductRequest) (models.ProductFields, error) {
	if v := validate.First(in); v != nil {
		return models.ProductFields{}, validationFailed(v)
	}
	fields, err := in.Fields()
	if err != nil {
		// only an out-of-range quantidade passes the rules yet fails here
		return models.ProductFields{}, validationFailed(&validate.Violation{
			Field:   "quantidade",
			Rule:    "quantidade.integer",
			Message: "Quantidade deve ser um número inteiro",
		})
	}
	return fields, nil
}
