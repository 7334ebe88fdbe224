package migrations

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/pkg/migration"
)

func init() {
	migration.Register("20250301000000_create_produtos_table", &CreateProdutosTable{})
	migration.Register("20250301000001_create_usuarios_table", &CreateUsuariosTable{})
}

// Table snapshots as of this migration. They are intentionally separate from
// the adapter row types so later model changes never rewrite history.

type produto20250301 struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Nome            string    `gorm:"size:100;not null"`
	Descricao       string    `gorm:"type:text"`
	Preco           float64   `gorm:"not null"`
	Quantidade      int       `gorm:"not null;default:0"`
	DataCriacao     time.Time `gorm:"column:data_criacao;not null;index"`
	DataAtualizacao time.Time `gorm:"column:data_atualizacao"`
}

func (produto20250301) TableName() string { return "produtos" }

type usuario20250301 struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Usuario     string    `gorm:"size:100;not null;uniqueIndex:idx_usuarios_usuario"`
	Email       string    `gorm:"size:100;not null;uniqueIndex:idx_usuarios_email"`
	Senha       string    `gorm:"size:255;not null"`
	DataCriacao time.Time `gorm:"column:data_criacao;not null"`
}

func (usuario20250301) TableName() string { return "usuarios" }

// -------- 0001: produtos --------

type CreateProdutosTable struct{}

func (m *CreateProdutosTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&produto20250301{})
}

func (m *CreateProdutosTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("produtos")
}

// -------- 0002: usuarios --------

type CreateUsuariosTable struct{}

func (m *CreateUsuariosTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&usuario20250301{})
}

func (m *CreateUsuariosTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("usuarios")
}
