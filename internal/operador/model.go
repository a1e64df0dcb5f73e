package operador

import "time"

// Operador é uma conta de acesso ao back-office.
type Operador struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Nome         string     `gorm:"size:255;not null" json:"nome"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Senha        string     `gorm:"size:255;not null" json:"-"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`
	Ativo        bool       `gorm:"default:true" json:"ativo"`
	UltimoAcesso *time.Time `json:"ultimo_acesso"`
	DataCadastro time.Time  `gorm:"autoCreateTime" json:"data_cadastro"`
}

func (Operador) TableName() string { return "operadores" }
