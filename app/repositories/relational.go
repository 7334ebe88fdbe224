package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/app/models"
	_ "github.com/shashiranjanraj/estoque/database/migrations" // registers the schema
	"github.com/shashiranjanraj/estoque/pkg/database"
	"github.com/shashiranjanraj/estoque/pkg/migration"
)

// productRow maps the produtos table.
type productRow struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Nome            string    `gorm:"column:nome"`
	Descricao       string    `gorm:"column:descricao"`
	Preco           float64   `gorm:"column:preco"`
	Quantidade      int       `gorm:"column:quantidade"`
	DataCriacao     time.Time `gorm:"column:data_criacao"`
	DataAtualizacao time.Time `gorm:"column:data_atualizacao"`
}

func (productRow) TableName() string { return "produtos" }

func (r productRow) model() models.Product {
	return models.Product{
		ID:          models.UintID(r.ID),
		Name:        r.Nome,
		Description: r.Descricao,
		Price:       r.Preco,
		Quantity:    r.Quantidade,
		CreatedAt:   r.DataCriacao.UTC(),
		UpdatedAt:   r.DataAtualizacao.UTC(),
	}
}

// userRow maps the usuarios table.
type userRow struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Usuario     string    `gorm:"column:usuario"`
	Email       string    `gorm:"column:email"`
	Senha       string    `gorm:"column:senha"`
	DataCriacao time.Time `gorm:"column:data_criacao"`
}

func (userRow) TableName() string { return "usuarios" }

func (r userRow) model() models.User {
	return models.User{
		ID:        models.UintID(r.ID),
		Username:  r.Usuario,
		Email:     r.Email,
		Password:  r.Senha,
		CreatedAt: r.DataCriacao.UTC(),
	}
}

// Relational is the gorm-backed adapter (sqlite, postgres, mysql, sqlserver).
type Relational struct {
	db       *gorm.DB
	call     call
	products *relationalProducts
	users    *relationalUsers
}

// NewRelational wraps an open gorm handle. The adapter takes ownership: Close
// releases the pool.
func NewRelational(db *gorm.DB, driver string, timeout time.Duration) *Relational {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := call{driver: driver, timeout: timeout}
	return &Relational{
		db:       db,
		call:     c,
		products: &relationalProducts{db: db, call: c},
		users:    &relationalUsers{db: db, call: c},
	}
}

func (a *Relational) Driver() string              { return a.call.driver }
func (a *Relational) Products() ProductRepository { return a.products }
func (a *Relational) Users() UserRepository       { return a.users }

// DB exposes the handle for the migrate CLI commands.
func (a *Relational) DB() *gorm.DB { return a.db }

func (a *Relational) Migrate(ctx context.Context) error {
	if _, err := migration.New(a.db).Run(ctx); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}
	return nil
}

func (a *Relational) Ping(ctx context.Context) error {
	return a.call.run(ctx, "ping", func(ctx context.Context) error {
		sqlDB, err := a.db.DB()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	})
}

func (a *Relational) Close(context.Context) error {
	return database.CloseRelational(a.db)
}

// ─── Products ────────────────────────────────────────────────────────────────

type relationalProducts struct {
	db   *gorm.DB
	call call
}

func (r *relationalProducts) Create(ctx context.Context, p *models.Product) error {
	return r.call.run(ctx, "insert", func(ctx context.Context) error {
		now := relationalNow()
		row := productRow{
			Nome:            p.Name,
			Descricao:       p.Description,
			Preco:           p.Price,
			Quantidade:      p.Quantity,
			DataCriacao:     now,
			DataAtualizacao: now,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return translateGormError(err)
		}
		*p = row.model()
		return nil
	})
}

func (r *relationalProducts) List(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := r.call.run(ctx, "select", func(ctx context.Context) error {
		return translateGormError(r.db.WithContext(ctx).Order("id desc").Find(&rows).Error)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

func (r *relationalProducts) FindByID(ctx context.Context, id models.ID) (models.Product, error) {
	n, ok := id.Uint()
	if !ok {
		return models.Product{}, ErrNotFound
	}

	var row productRow
	err := r.call.run(ctx, "select", func(ctx context.Context) error {
		return translateGormError(r.db.WithContext(ctx).First(&row, n).Error)
	})
	if err != nil {
		return models.Product{}, err
	}
	return row.model(), nil
}

func (r *relationalProducts) Update(ctx context.Context, id models.ID, fields models.ProductFields) (models.Product, error) {
	n, ok := id.Uint()
	if !ok {
		return models.Product{}, ErrNotFound
	}

	var row productRow
	err := r.call.run(ctx, "update", func(ctx context.Context) error {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&row, n).Error; err != nil {
				return err
			}
			row.Nome = fields.Name
			row.Descricao = fields.Description
			row.Preco = fields.Price
			row.Quantidade = fields.Quantity
			row.DataAtualizacao = relationalNow()

			return tx.Model(&row).
				Select("nome", "descricao", "preco", "quantidade", "data_atualizacao").
				Updates(&row).Error
		})
		return translateGormError(err)
	})
	if err != nil {
		return models.Product{}, err
	}
	return row.model(), nil
}

func (r *relationalProducts) Delete(ctx context.Context, id models.ID) error {
	n, ok := id.Uint()
	if !ok {
		return ErrNotFound
	}

	return r.call.run(ctx, "delete", func(ctx context.Context) error {
		res := r.db.WithContext(ctx).Delete(&productRow{}, n)
		if res.Error != nil {
			return translateGormError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ─── Users ───────────────────────────────────────────────────────────────────

type relationalUsers struct {
	db   *gorm.DB
	call call
}

func (r *relationalUsers) Create(ctx context.Context, u *models.User) error {
	return r.call.run(ctx, "insert", func(ctx context.Context) error {
		row := userRow{
			Usuario:     u.Username,
			Email:       u.Email,
			Senha:       u.Password,
			DataCriacao: relationalNow(),
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return translateGormError(err)
		}
		*u = row.model()
		return nil
	})
}

func (r *relationalUsers) FindByID(ctx context.Context, id models.ID) (models.User, error) {
	n, ok := id.Uint()
	if !ok {
		return models.User{}, ErrNotFound
	}

	var row userRow
	err := r.call.run(ctx, "select", func(ctx context.Context) error {
		return translateGormError(r.db.WithContext(ctx).First(&row, n).Error)
	})
	if err != nil {
		return models.User{}, err
	}
	return row.model(), nil
}

func (r *relationalUsers) FindByField(ctx context.Context, field UserField, value string) (models.User, error) {
	column, err := userColumn(field)
	if err != nil {
		return models.User{}, err
	}

	var row userRow
	err = r.call.run(ctx, "select", func(ctx context.Context) error {
		return translateGormError(r.db.WithContext(ctx).Where(column+" = ?", value).First(&row).Error)
	})
	if err != nil {
		return models.User{}, err
	}
	return row.model(), nil
}

func userColumn(field UserField) (string, error) {
	switch field {
	case FieldUsername:
		return "usuario", nil
	case FieldEmail:
		return "email", nil
	default:
		return "", fmt.Errorf("repositories: unknown user field %q", field)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// relationalNow is truncated to microseconds, the finest precision every
// supported dialect stores.
func relationalNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// isUniqueViolation catches dialects whose error translator gorm lacks.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
